package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"collateral-lending/internal/domain/lending"

	"github.com/spf13/cobra"
)

type tierRow struct {
	RateBps uint16 `json:"rate_bps"`
	LTVBps  uint64 `json:"ltv_bps"`
}

// NewTiersCommand creates the tiers command.
func NewTiersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List the accepted interest rates and their loan-to-value limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []tierRow
			for _, t := range lending.DefaultRateTable().Tiers() {
				rows = append(rows, tierRow{RateBps: t.RateBps, LTVBps: t.LTVBps})
			}
			return rootOpts.emit(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RATE_BPS\tLTV_BPS")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%d\n", r.RateBps, r.LTVBps)
				}
				return tw.Flush()
			})
		},
	}
}
