// Package models defines the canonical data shapes shared by the
// normalization, classification, risk and reconciliation components.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharesPerContract is the standard option contract multiplier.
const SharesPerContract = 100

// OptionType represents the type of option contract.
type OptionType string

const (
	// OptionTypeCall represents a call option contract
	OptionTypeCall OptionType = "call"
	// OptionTypePut represents a put option contract
	OptionTypePut OptionType = "put"
)

// Valid returns true if the OptionType is one of the defined constants.
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// OptionLeg is one option contract held or traded, normalized from a raw
// broker row. Quantity is signed: positive = long, negative = short.
//
// AvgCost and MarketPrice are per-share premiums; MarketValue and the P/L
// fields are quantity-scaled dollars. Optional fields use NullDecimal so a
// value the feed never carried is distinguishable from an actual zero.
type OptionLeg struct {
	Underlying   string              `json:"underlying"`
	Expiry       time.Time           `json:"expiry"`
	Strike       decimal.Decimal     `json:"strike"`
	Type         OptionType          `json:"type"`
	Quantity     int                 `json:"quantity"`
	AvgCost      decimal.NullDecimal `json:"avg_cost"`
	MarketPrice  decimal.NullDecimal `json:"market_price"`
	MarketValue  decimal.NullDecimal `json:"market_value"`
	UnrealizedPL decimal.NullDecimal `json:"unrealized_pl"`
	RealizedPL   decimal.NullDecimal `json:"realized_pl"`
	ConID        string              `json:"conid,omitempty"`
	// Symbol is the canonical OCC symbol derived from
	// (Underlying, Expiry, Strike, Type). It is the stable join key across
	// snapshots: two legs with equal symbols are the same contract.
	Symbol string `json:"symbol"`
}

// IsLong returns true for a long (positive quantity) leg.
func (l *OptionLeg) IsLong() bool {
	return l.Quantity > 0
}

// Contracts returns the unsigned number of contracts in the leg.
func (l *OptionLeg) Contracts() int {
	if l.Quantity < 0 {
		return -l.Quantity
	}
	return l.Quantity
}

// StockRow is a simple equity holding extracted from the snapshot alongside
// option legs.
type StockRow struct {
	Symbol       string              `json:"symbol"`
	Quantity     decimal.Decimal     `json:"quantity"`
	AvgCost      decimal.NullDecimal `json:"avg_cost"`
	MarketPrice  decimal.NullDecimal `json:"market_price"`
	MarketValue  decimal.NullDecimal `json:"market_value"`
	UnrealizedPL decimal.NullDecimal `json:"unrealized_pl"`
	RealizedPL   decimal.NullDecimal `json:"realized_pl"`
}
