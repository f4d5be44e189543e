package cli

import (
	"fmt"
	"io"

	"collateral-lending/internal/domain/lending"
	"collateral-lending/pkg/amount"

	"github.com/spf13/cobra"
)

type quoteResult struct {
	Principal          uint64 `json:"principal"`
	RateBps            uint16 `json:"rate_bps"`
	LTVBps             uint64 `json:"ltv_bps"`
	Price              uint64 `json:"price"`
	RequiredCollateral uint64 `json:"required_collateral"`
	Display            string `json:"required_collateral_display"`
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		principal string
		price     string
		rateBps   uint16
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the collateral a borrow requires",
		Long: `Compute the minimum collateral for borrowing --principal at --rate.

--price is the value of one whole collateral unit in the stable asset.
The result is rounded up to the next collateral base unit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rootOpts.stable("principal", principal)
			if err != nil {
				return err
			}
			px, err := rootOpts.stable("price", price)
			if err != nil {
				return err
			}
			rates := lending.DefaultRateTable()
			ltv, err := rates.Lookup(rateBps)
			if err != nil {
				return err
			}
			required, err := lending.NewLedger(rates, rootOpts.CollateralDecimals, 0).Quote(p, rateBps, px)
			if err != nil {
				return err
			}
			res := quoteResult{
				Principal: p, RateBps: rateBps, LTVBps: ltv, Price: px,
				RequiredCollateral: required,
				Display:            amount.Format(required, rootOpts.CollateralDecimals),
			}
			return rootOpts.emit(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "required collateral: %s (%d base units, ltv %d bps)\n", res.Display, required, ltv)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "amount to borrow in the stable asset")
	cmd.Flags().StringVar(&price, "price", "", "stable value of one collateral unit")
	cmd.Flags().Uint16Var(&rateBps, "rate", 0, "annual rate in basis points")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
