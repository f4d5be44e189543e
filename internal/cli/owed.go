package cli

import (
	"fmt"
	"io"
	"time"

	"collateral-lending/internal/domain/lending"
	"collateral-lending/pkg/amount"

	"github.com/spf13/cobra"
)

type owedResult struct {
	lending.Owed
	AsOf         time.Time `json:"as_of"`
	TotalDisplay string    `json:"total_display"`
}

// NewOwedCommand creates the owed command.
func NewOwedCommand(rootOpts *RootOptions) *cobra.Command {
	var f loanFlags
	cmd := &cobra.Command{
		Use:   "owed",
		Short: "Value a loan: accrued interest and total owed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, at, err := rootOpts.loan(f)
			if err != nil {
				return err
			}
			if _, err := lending.DefaultRateTable().Lookup(f.rateBps); err != nil {
				return err
			}
			owed, err := lending.LoanOwed(ln, at)
			if err != nil {
				return err
			}
			res := owedResult{Owed: owed, AsOf: at, TotalDisplay: amount.Format(owed.Total, rootOpts.StableDecimals)}
			return rootOpts.emit(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "interest: %s\ntotal owed: %s\nelapsed: %ds\n",
					amount.Format(owed.Interest, rootOpts.StableDecimals), res.TotalDisplay, owed.Elapsed)
				return err
			})
		},
	}
	addLoanFlags(cmd, &f)
	return cmd
}

func addLoanFlags(cmd *cobra.Command, f *loanFlags) {
	cmd.Flags().StringVar(&f.principal, "principal", "", "outstanding principal in the stable asset")
	cmd.Flags().StringVar(&f.unpaid, "unpaid-interest", "0", "interest carried from earlier partial repayments")
	cmd.Flags().Uint16Var(&f.rateBps, "rate", 0, "annual rate in basis points")
	cmd.Flags().StringVar(&f.since, "since", "", "accrual baseline (RFC3339)")
	cmd.Flags().StringVar(&f.at, "at", "", "valuation time (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("since")
}
