// Package cli is lendctl: the pure lending arithmetic on the command line,
// without a database or a price feed.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format             string // "json" | "text"
	CollateralDecimals uint8
	StableDecimals     uint8

	now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for lendctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:           "lendctl",
		Short:         "Collateralized lending calculator",
		Long:          "Quote collateral and value or settle loans without a running service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.CollateralDecimals > 18 || opts.StableDecimals > 18 {
				return fmt.Errorf("decimals must be at most 18")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().Uint8Var(&opts.CollateralDecimals, "collateral-decimals", 9, "decimal places of the collateral asset")
	cmd.PersistentFlags().Uint8Var(&opts.StableDecimals, "stable-decimals", 6, "decimal places of the stable asset")

	cmd.AddCommand(NewTiersCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))
	cmd.AddCommand(NewOwedCommand(opts))
	cmd.AddCommand(NewRepayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// emit writes v as indented JSON or calls text.
func (o *RootOptions) emit(w io.Writer, v any, text func(io.Writer) error) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}
