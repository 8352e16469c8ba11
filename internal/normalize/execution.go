package normalize

import (
	"time"

	"github.com/ogostos/optledger/internal/models"
)

// execution time layouts seen across feeds, most specific first.
var execTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"20060102-15:04:05",
}

// Execution converts one raw execution row. Rows without a symbol are
// dropped; everything else degrades field by field.
func Execution(row Raw) *models.Execution {
	sym := Text(firstOf(row, "symbol", "contract", "contract_desc"))
	if sym == "" {
		return nil
	}
	qty := lookupNumber(row, "quantity", "qty", "shares", "size")
	e := &models.Execution{
		TradeID:    Text(firstOf(row, "trade_id", "tradeId", "execution_id", "exec_id")),
		OrderID:    Text(firstOf(row, "order_id", "orderId", "order_ref", "order_reference")),
		Symbol:     sym,
		Side:       Text(firstOf(row, "side", "action")),
		Price:      lookupNumber(row, "price", "fill_price", "avg_price"),
		Commission: lookupNumber(row, "commission", "fee"),
		ConID:      Text(firstOf(row, "conid", "contract_id")),
	}
	if qty.Valid {
		e.Quantity = qty.Decimal
	}
	if ts := Text(firstOf(row, "trade_time", "tradeTime", "time", "timestamp")); ts != "" {
		for _, layout := range execTimeLayouts {
			if t, err := time.Parse(layout, ts); err == nil {
				e.TradeTime = t
				break
			}
		}
	}
	return e
}

// Executions converts a full list of raw execution rows.
func Executions(rows []Raw) []models.Execution {
	out := make([]models.Execution, 0, len(rows))
	for _, row := range rows {
		if e := Execution(row); e != nil {
			out = append(out, *e)
		}
	}
	return out
}
