package models

import "github.com/shopspring/decimal"

// RiskProfile holds the computed risk metrics for a classified leg group.
//
// Exactly one of NetDebit / NetCredit is nonzero. MaxRisk and MaxProfit are
// null when the inputs carried too little price data to bound them
// (a pricing gap is reported as null, never as a fabricated zero).
// UnboundedProfit marks naked long premium, where MaxProfit is null because
// no finite bound exists rather than because data was missing.
type RiskProfile struct {
	NetDebit        decimal.Decimal     `json:"net_debit"`
	NetCredit       decimal.Decimal     `json:"net_credit"`
	MaxRisk         decimal.NullDecimal `json:"max_risk"`
	MaxProfit       decimal.NullDecimal `json:"max_profit"`
	UnboundedProfit bool                `json:"unbounded_profit"`
	// Breakevens holds zero, one or two underlying prices, ascending.
	Breakevens []decimal.Decimal `json:"breakevens"`
}

// Bounded reports whether both max risk and max profit carry finite values.
func (r *RiskProfile) Bounded() bool {
	return r.MaxRisk.Valid && r.MaxProfit.Valid && !r.UnboundedProfit
}
