package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/models"
)

// Average-cost unit-error detection bounds. Some feeds report option average
// cost scaled x100 relative to the per-share market price (the contract
// multiplier baked in). When avgCost/marketPrice lands in this band the cost
// is rescaled to per-share units.
var (
	costRatioLow  = decimal.NewFromInt(20)
	costRatioHigh = decimal.NewFromInt(200)
	costAbsHigh   = decimal.NewFromInt(1000)
	hundred       = decimal.NewFromInt(100)
)

// Leg converts one raw position/execution record into an option leg, a stock
// row, or neither. Rows that normalize into neither shape are dropped by the
// caller; partial feeds are expected and never a hard failure.
func Leg(row Raw) (*models.OptionLeg, *models.StockRow) {
	symField, _ := lookup(row, "symbol", "contract", "contract_desc", "contractDesc")
	sym := Text(symField)
	if sym == "" {
		return nil, nil
	}

	qty := lookupNumber(row, "quantity", "position", "qty")
	avgCost := lookupNumber(row, "average_cost", "avg_cost", "avgCost", "avgPrice")
	mktPrice := lookupNumber(row, "market_price", "mktPrice", "last_price", "price")
	mktValue := lookupNumber(row, "market_value", "mktValue")
	unrealPL := lookupNumber(row, "unrealized_pl", "unrealizedPnl", "unrealized_pnl", "uPnL")
	realPL := lookupNumber(row, "realized_pl", "realizedPnl", "realized_pnl")
	conid := Text(firstOf(row, "conid", "contract_id", "conidex"))

	underlying, expiry, strike, typ, err := models.ParseOptionSymbol(sym)
	if err != nil {
		// Not an option contract: treat as an equity holding when the row
		// carries a quantity, otherwise drop it.
		if !qty.Valid || qty.Decimal.IsZero() {
			return nil, nil
		}
		return nil, &models.StockRow{
			Symbol:       sym,
			Quantity:     qty.Decimal,
			AvgCost:      avgCost,
			MarketPrice:  mktPrice,
			MarketValue:  mktValue,
			UnrealizedPL: unrealPL,
			RealizedPL:   realPL,
		}
	}

	if !qty.Valid {
		return nil, nil
	}
	quantity := int(qty.Decimal.Round(0).IntPart())
	if quantity == 0 {
		return nil, nil
	}

	leg := &models.OptionLeg{
		Underlying:   underlying,
		Expiry:       expiry,
		Strike:       strike,
		Type:         typ,
		Quantity:     quantity,
		AvgCost:      correctAvgCost(avgCost, mktPrice),
		MarketPrice:  mktPrice,
		MarketValue:  mktValue,
		UnrealizedPL: unrealPL,
		RealizedPL:   realPL,
		ConID:        conid,
		Symbol:       models.OptionSymbol(underlying, expiry, strike, typ),
	}
	return leg, nil
}

// correctAvgCost rescales a x100 unit error, detected per leg: either the
// cost/price ratio sits in [20,200], or the cost exceeds 1000 with no market
// price to compare against.
func correctAvgCost(avgCost, mktPrice decimal.NullDecimal) decimal.NullDecimal {
	if !avgCost.Valid {
		return avgCost
	}
	cost := avgCost.Decimal.Abs()
	if mktPrice.Valid && mktPrice.Decimal.Abs().IsPositive() {
		ratio := cost.Div(mktPrice.Decimal.Abs())
		if ratio.GreaterThanOrEqual(costRatioLow) && ratio.LessThanOrEqual(costRatioHigh) {
			return decimal.NullDecimal{Decimal: avgCost.Decimal.Div(hundred), Valid: true}
		}
		return avgCost
	}
	if cost.GreaterThan(costAbsHigh) {
		return decimal.NullDecimal{Decimal: avgCost.Decimal.Div(hundred), Valid: true}
	}
	return avgCost
}

func firstOf(row Raw, keys ...string) interface{} {
	v, _ := lookup(row, keys...)
	return v
}

// Snapshot splits a full list of raw position rows into normalized option
// legs and stock rows, dropping unrecognizable rows.
func Snapshot(rows []Raw) ([]models.OptionLeg, []models.StockRow) {
	var legs []models.OptionLeg
	var stocks []models.StockRow
	for _, row := range rows {
		leg, stock := Leg(row)
		switch {
		case leg != nil:
			legs = append(legs, *leg)
		case stock != nil:
			stocks = append(stocks, *stock)
		}
	}
	return legs, stocks
}
