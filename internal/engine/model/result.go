package model

import "github.com/shopspring/decimal"

// DutyRule is one immutable reference-data row keyed by (commodity code,
// country or country group). FTA carries the raw table code; 2 means an FTA
// rate was applied.
type DutyRule struct {
	Code     string  `yaml:"code"`
	Country  string  `yaml:"country"`
	Rate     float64 `yaml:"rate"`
	Category string  `yaml:"category"`
	FTA      int     `yaml:"fta"`
}

// FTAApplied reports whether the row is an FTA preferential rate.
func (r DutyRule) FTAApplied() bool {
	return r.FTA == 2
}

// DutyResult is the calculator's structured output.
type DutyResult struct {
	HSCode        string          `json:"hs_code"`
	OriginCountry string          `json:"origin_country"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TaxableBase   decimal.Decimal `json:"taxable_base"`
	Rate          decimal.Decimal `json:"rate"`
	Duty          decimal.Decimal `json:"duty"`
	VAT           decimal.Decimal `json:"vat"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	Category      string          `json:"category"`
	FTAApplied    bool            `json:"fta_applied"`
	// RuleNote identifies which cascade tier matched.
	RuleNote string `json:"rule_note"`
	// FullyExempt marks the travel-purchase personal exemption.
	FullyExempt bool `json:"fully_exempt"`
}
