package models

import "github.com/shopspring/decimal"

// AccountSummary is the flat bundle of optional scalar account metrics
// extracted from the broker's loosely-typed summary blob. A metric the feed
// did not carry stays null; it is never coerced to zero.
//
// MarginDebt is always derived from Cash (|cash| when cash < 0, else 0),
// never looked up directly.
type AccountSummary struct {
	NetLiquidation     decimal.NullDecimal `json:"net_liquidation"`
	Cash               decimal.NullDecimal `json:"cash"`
	BuyingPower        decimal.NullDecimal `json:"buying_power"`
	MaintenanceMargin  decimal.NullDecimal `json:"maintenance_margin"`
	ExcessLiquidity    decimal.NullDecimal `json:"excess_liquidity"`
	MarginDebt         decimal.NullDecimal `json:"margin_debt"`
	GrossPositionValue decimal.NullDecimal `json:"gross_position_value"`
	Leverage           decimal.NullDecimal `json:"leverage"`
	Cushion            decimal.NullDecimal `json:"cushion"`
}
