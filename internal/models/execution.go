package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Execution is one broker execution/fill row, used as a grouping hint when
// reconciling loose legs: legs filled under the same order reference very
// likely belong to one multi-leg position.
type Execution struct {
	TradeID    string              `json:"trade_id"`
	OrderID    string              `json:"order_id,omitempty"`
	Symbol     string              `json:"symbol"`
	Side       string              `json:"side,omitempty"`
	Quantity   decimal.Decimal     `json:"quantity"`
	Price      decimal.NullDecimal `json:"price"`
	Commission decimal.NullDecimal `json:"commission"`
	TradeTime  time.Time           `json:"trade_time"`
	ConID      string              `json:"conid,omitempty"`
}

// OrderRef returns the grouping key for the execution: the order id when
// present, falling back to the trade id.
func (e *Execution) OrderRef() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.TradeID
}
