package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/models"
)

// Summary extracts the scalar account metrics from the broker's free-form
// summary blob. Each metric tries an ordered list of acceptable spellings
// (exact first, then case/punctuation-insensitive). A metric with no
// resolvable key stays null.
func Summary(blob Raw) models.AccountSummary {
	s := models.AccountSummary{
		NetLiquidation:     lookupNumber(blob, "netliquidation", "net_liquidation", "NetLiquidation", "netLiquidationValue"),
		Cash:               lookupNumber(blob, "totalcashvalue", "total_cash", "cash", "cashBalance"),
		BuyingPower:        lookupNumber(blob, "buyingpower", "buying_power", "BuyingPower"),
		MaintenanceMargin:  lookupNumber(blob, "maintmarginreq", "maintenance_margin", "maintMarginReq", "MaintMarginReq"),
		ExcessLiquidity:    lookupNumber(blob, "excessliquidity", "excess_liquidity", "ExcessLiquidity"),
		GrossPositionValue: lookupNumber(blob, "grosspositionvalue", "gross_position_value", "GrossPositionValue"),
		Leverage:           lookupNumber(blob, "leverage", "Leverage-S"),
		Cushion:            lookupNumber(blob, "cushion", "Cushion"),
	}

	// Margin debt is derived, never sourced: negative cash is borrowed.
	if s.Cash.Valid {
		debt := decimal.Zero
		if s.Cash.Decimal.IsNegative() {
			debt = s.Cash.Decimal.Abs()
		}
		s.MarginDebt = decimal.NullDecimal{Decimal: debt, Valid: true}
	}
	return s
}
