package cli

import (
	"fmt"
	"io"
	"time"

	"collateral-lending/internal/domain/lending"
	"collateral-lending/pkg/amount"

	"github.com/spf13/cobra"
)

// NewRepayCommand creates the repay command. It only resolves the payment;
// nothing is stored.
func NewRepayCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		f          loanFlags
		payment    string
		collateral string
	)
	cmd := &cobra.Command{
		Use:   "repay",
		Short: "Resolve a repayment against a loan (full or partial settlement)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, at, err := rootOpts.loan(f)
			if err != nil {
				return err
			}
			pay, err := rootOpts.stable("amount", payment)
			if err != nil {
				return err
			}
			if ln.Collateral, err = rootOpts.collateral("collateral", collateral); err != nil {
				return err
			}
			out, err := lending.ResolveRepayment(ln, pay, at)
			if err != nil {
				return err
			}
			return rootOpts.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
				s := rootOpts.StableDecimals
				fmt.Fprintf(w, "settlement: %s\n", out.Settlement)
				fmt.Fprintf(w, "owed before: %s\n", amount.Format(out.Owed.Total, s))
				fmt.Fprintf(w, "interest paid: %s\nprincipal paid: %s\n",
					amount.Format(out.InterestPaid, s), amount.Format(out.PrincipalPaid, s))
				if out.Settlement == lending.FullSettlement {
					_, err := fmt.Fprintf(w, "collateral released: %s\n", amount.Format(out.CollateralToRelease, rootOpts.CollateralDecimals))
					return err
				}
				_, err := fmt.Fprintf(w, "remaining principal: %s\nunpaid interest: %s\naccrues from: %s\n",
					amount.Format(out.NewPrincipal, s), amount.Format(out.UnpaidInterest, s), out.Baseline.Format(time.RFC3339))
				return err
			})
		},
	}
	addLoanFlags(cmd, &f)
	cmd.Flags().StringVar(&payment, "amount", "", "payment in the stable asset")
	cmd.Flags().StringVar(&collateral, "collateral", "0", "collateral pledged to the loan")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
