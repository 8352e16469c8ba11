package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionStatus is the lifecycle status of a trade or reconciled position.
type PositionStatus string

const (
	// StatusOpen marks a live position.
	StatusOpen PositionStatus = "open"
	// StatusClosed marks a fully exited position.
	StatusClosed PositionStatus = "closed"
)

// Provenance records how a reconciled position came to exist.
type Provenance string

const (
	// ProvenanceMatched means the legs matched a previously known trade.
	ProvenanceMatched Provenance = "matched-to-known-trade"
	// ProvenanceDerived means the position was synthesized from loose legs.
	ProvenanceDerived Provenance = "derived-from-legs"
)

// Trade is a previously recorded trade as persisted by the trade store.
// RequiredSymbols is the canonical symbol set a live snapshot must fully
// contain for the trade to be considered present at the broker.
type Trade struct {
	ID              string              `json:"id"`
	Underlying      string              `json:"underlying"`
	Strategy        Strategy            `json:"strategy"`
	Bias            Bias                `json:"bias"`
	RequiredSymbols []string            `json:"required_symbols"`
	Status          PositionStatus      `json:"status"`
	Quantity        int                 `json:"quantity"`
	Expiration      time.Time           `json:"expiration"`
	NetDebit        decimal.Decimal     `json:"net_debit"`
	NetCredit       decimal.Decimal     `json:"net_credit"`
	MaxRisk         decimal.NullDecimal `json:"max_risk"`
	MaxProfit       decimal.NullDecimal `json:"max_profit"`
	UnboundedProfit bool                `json:"unbounded_profit"`
	Breakevens      []decimal.Decimal   `json:"breakevens"`
	EntryDate       time.Time           `json:"entry_date,omitempty"`
	ExitDate        time.Time           `json:"exit_date,omitempty"`
	ExitReason      string              `json:"exit_reason,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// ReconciledPosition is a trade-shaped record emitted by one reconciliation
// pass. It is created fresh on every pass and never mutated in place.
type ReconciledPosition struct {
	ID         string         `json:"id"`
	Underlying string         `json:"underlying"`
	Strategy   Strategy       `json:"strategy"`
	Bias       Bias           `json:"bias"`
	Units      int            `json:"units"`
	// Legs holds the constituent canonical symbols, sorted and de-duplicated.
	Legs       []string       `json:"legs"`
	Status     PositionStatus `json:"status"`
	Provenance Provenance     `json:"provenance"`
	Expiration time.Time      `json:"expiration"`
	Quantity   int            `json:"quantity"`

	// Dollar fields are rounded to 2 decimals and breakevens to 4 at this
	// emission boundary; upstream arithmetic is unrounded.
	NetDebit        decimal.Decimal     `json:"net_debit"`
	NetCredit       decimal.Decimal     `json:"net_credit"`
	MaxRisk         decimal.NullDecimal `json:"max_risk"`
	MaxProfit       decimal.NullDecimal `json:"max_profit"`
	UnboundedProfit bool                `json:"unbounded_profit"`
	Breakevens      []decimal.Decimal   `json:"breakevens"`
	UnrealizedPL    decimal.NullDecimal `json:"unrealized_pl"`
	RealizedPL      decimal.NullDecimal `json:"realized_pl"`
}
