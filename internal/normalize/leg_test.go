package normalize

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/models"
)

func TestLegOptionRow(t *testing.T) {
	row := Raw{
		"symbol":        "SPY240315C00610000",
		"quantity":      -2.0,
		"market_price":  4.35,
		"market_value":  -870.0,
		"average_cost":  map[string]interface{}{"value": "5.10"},
		"unrealized_pl": 150.0,
		"conid":         712345678.0,
	}

	leg, stock := Leg(row)
	if stock != nil {
		t.Fatal("expected option leg, got stock row")
	}
	if leg == nil {
		t.Fatal("expected option leg, got nil")
	}
	if leg.Underlying != "SPY" {
		t.Errorf("underlying = %s, expected SPY", leg.Underlying)
	}
	if leg.Quantity != -2 {
		t.Errorf("quantity = %d, expected -2", leg.Quantity)
	}
	if leg.Type != models.OptionTypeCall {
		t.Errorf("type = %s, expected call", leg.Type)
	}
	if !leg.Strike.Equal(decimal.NewFromInt(610)) {
		t.Errorf("strike = %s, expected 610", leg.Strike)
	}
	if leg.Symbol != "SPY240315C00610000" {
		t.Errorf("symbol = %s, expected canonical OCC symbol", leg.Symbol)
	}
	if !leg.AvgCost.Valid || !leg.AvgCost.Decimal.Equal(decimal.NewFromFloat(5.10)) {
		t.Errorf("avg cost = %v, expected 5.10", leg.AvgCost)
	}
	if leg.ConID != "712345678" {
		t.Errorf("conid = %s, expected 712345678", leg.ConID)
	}
}

func TestLegStockRow(t *testing.T) {
	row := Raw{
		"symbol":       "AAPL",
		"quantity":     "1,500",
		"market_value": 262500.0,
	}

	leg, stock := Leg(row)
	if leg != nil {
		t.Fatal("expected stock row, got option leg")
	}
	if stock == nil {
		t.Fatal("expected stock row, got nil")
	}
	if !stock.Quantity.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("quantity = %s, expected 1500", stock.Quantity)
	}
	if stock.AvgCost.Valid {
		t.Error("absent avg cost must stay null, not zero")
	}
}

func TestLegDropsUnrecognizableRows(t *testing.T) {
	tests := []struct {
		name string
		row  Raw
	}{
		{name: "no symbol", row: Raw{"quantity": 1.0}},
		{name: "no quantity", row: Raw{"symbol": "AAPL"}},
		{name: "zero quantity stock", row: Raw{"symbol": "AAPL", "quantity": 0.0}},
		{name: "empty row", row: Raw{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg, stock := Leg(tt.row)
			if leg != nil || stock != nil {
				t.Errorf("Leg(%v) = (%v, %v), expected both nil", tt.row, leg, stock)
			}
		})
	}
}

func TestAvgCostUnitCorrection(t *testing.T) {
	tests := []struct {
		name     string
		avgCost  float64
		mktPrice interface{}
		expected string
	}{
		{
			// The literal feed fault: per-contract cost against a
			// per-share market price.
			name:     "x100 ratio corrected",
			avgCost:  13455,
			mktPrice: 134.55,
			expected: "134.55",
		},
		{
			name:     "ratio near 1 untouched",
			avgCost:  5.10,
			mktPrice: 4.35,
			expected: "5.1",
		},
		{
			name:     "large cost with no market price corrected",
			avgCost:  1250,
			mktPrice: nil,
			expected: "12.5",
		},
		{
			name:     "modest cost with no market price untouched",
			avgCost:  950,
			mktPrice: nil,
			expected: "950",
		},
		{
			name:     "ratio above band untouched",
			avgCost:  5000,
			mktPrice: 10.0,
			expected: "5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Raw{
				"symbol":       "SPY240315C00610000",
				"quantity":     1.0,
				"average_cost": tt.avgCost,
			}
			if tt.mktPrice != nil {
				row["market_price"] = tt.mktPrice
			}
			leg, _ := Leg(row)
			if leg == nil {
				t.Fatal("expected option leg")
			}
			want, _ := decimal.NewFromString(tt.expected)
			if !leg.AvgCost.Valid || !leg.AvgCost.Decimal.Equal(want) {
				t.Errorf("avg cost = %v, expected %s", leg.AvgCost, want)
			}
		})
	}
}

func TestSnapshotSplitsRows(t *testing.T) {
	rows := []Raw{
		{"symbol": "SPY240315C00610000", "quantity": 1.0},
		{"symbol": "AAPL", "quantity": 100.0},
		{"symbol": "???"},
	}
	legs, stocks := Snapshot(rows)
	if len(legs) != 1 {
		t.Errorf("legs = %d, expected 1", len(legs))
	}
	if len(stocks) != 1 {
		t.Errorf("stocks = %d, expected 1", len(stocks))
	}
}
