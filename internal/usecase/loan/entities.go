package loan

type BorrowInput struct {
	Caller     string
	OwnerID    string
	Principal  uint64
	RateBps    uint16
	Collateral uint64
}

type QuoteDTO struct {
	Principal                 uint64 `json:"principal"`
	RateBps                   uint16 `json:"rate_bps"`
	LTVBps                    uint64 `json:"ltv_bps"`
	Price                     uint64 `json:"price"`
	RequiredCollateral        uint64 `json:"required_collateral"`
	RequiredCollateralDisplay string `json:"required_collateral_display"`
}

type TierDTO struct {
	RateBps uint16 `json:"rate_bps"`
	LTVBps  uint64 `json:"ltv_bps"`
}
