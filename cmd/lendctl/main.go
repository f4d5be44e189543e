package main

import (
	"fmt"
	"os"

	"collateral-lending/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lendctl:", err)
		os.Exit(1)
	}
}
