// Package reconcile matches a live broker leg snapshot against previously
// known trade records and synthesizes positions for whatever is left over.
//
// Legs move from an available pool into exactly one emitted position per
// pass; a leg is never consumed twice and never silently dropped once it
// normalized. Each pass is a pure function of its inputs: same snapshot and
// trade set, same output.
package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/classify"
	"github.com/ogostos/optledger/internal/models"
	"github.com/ogostos/optledger/internal/risk"
)

// Reconcile partitions the snapshot legs into positions matched to known
// trades and positions derived from the leftover legs. Known trades are
// tried in caller order; a trade whose required symbols are only partially
// present is skipped, leaving its legs for the derived-grouping passes.
func Reconcile(legs []models.OptionLeg, trades []models.Trade, execs []models.Execution) []models.ReconciledPosition {
	pool := newLegPool(legs)
	out := make([]models.ReconciledPosition, 0, len(trades))

	// Pass 1: exact required-symbol-set matches against known trades.
	for i := range trades {
		t := &trades[i]
		if len(t.RequiredSymbols) == 0 {
			continue
		}
		idxs, ok := pool.takeAll(t.RequiredSymbols)
		if !ok {
			continue
		}
		out = append(out, matchedPosition(t, pool.legs, idxs))
	}

	// Pass 2: group leftover legs by execution order reference.
	for _, g := range orderGroups(pool, execs) {
		out = append(out, derivedPosition(pool.legs, g))
	}

	// Pass 3: diagonal pairs, then plain (ticker, expiry) buckets.
	for _, g := range fallbackGroups(pool) {
		out = append(out, derivedPosition(pool.legs, g))
	}

	return out
}

// legPool is the ownership arena: each leg index is either available or
// assigned to exactly one group.
type legPool struct {
	legs     []models.OptionLeg
	assigned []bool
	// bySymbol holds available indices per canonical symbol, in stable
	// (sorted) snapshot order.
	bySymbol map[string][]int
}

func newLegPool(legs []models.OptionLeg) *legPool {
	sorted := make([]models.OptionLeg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	p := &legPool{
		legs:     sorted,
		assigned: make([]bool, len(sorted)),
		bySymbol: make(map[string][]int, len(sorted)),
	}
	for i := range sorted {
		p.bySymbol[sorted[i].Symbol] = append(p.bySymbol[sorted[i].Symbol], i)
	}
	return p
}

// takeAll consumes every available leg for every required symbol, or nothing
// at all when any symbol is absent.
func (p *legPool) takeAll(symbols []string) ([]int, bool) {
	seen := make(map[string]bool, len(symbols))
	var idxs []int
	for _, sym := range symbols {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		found := false
		for _, i := range p.bySymbol[sym] {
			if !p.assigned[i] {
				idxs = append(idxs, i)
				found = true
			}
		}
		if !found {
			return nil, false
		}
	}
	for _, i := range idxs {
		p.assigned[i] = true
	}
	sort.Ints(idxs)
	return idxs, true
}

func (p *legPool) take(idxs []int) {
	for _, i := range idxs {
		p.assigned[i] = true
	}
}

func (p *legPool) availableIdxs() []int {
	var idxs []int
	for i := range p.legs {
		if !p.assigned[i] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// orderGroup is a candidate execution-hint grouping.
type orderGroup struct {
	ref    string
	idxs   []int
	latest time.Time
}

// orderGroups builds leg groups from execution order references. A candidate
// qualifies with at least two legs on exactly one underlying. Larger groups
// win first, then more recent ones, then order-ref ascending; a leg already
// placed is never reused, and a group shrunk below two legs by earlier
// winners is dropped.
func orderGroups(pool *legPool, execs []models.Execution) [][]int {
	symsByRef := make(map[string]map[string]bool)
	latestByRef := make(map[string]time.Time)
	for i := range execs {
		e := &execs[i]
		ref := e.OrderRef()
		if ref == "" {
			continue
		}
		sym := canonicalExecSymbol(e.Symbol)
		if sym == "" {
			continue
		}
		if symsByRef[ref] == nil {
			symsByRef[ref] = make(map[string]bool)
		}
		symsByRef[ref][sym] = true
		if e.TradeTime.After(latestByRef[ref]) {
			latestByRef[ref] = e.TradeTime
		}
	}

	var candidates []orderGroup
	for ref, syms := range symsByRef {
		var idxs []int
		for i := range pool.legs {
			if !pool.assigned[i] && syms[pool.legs[i].Symbol] {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) < 2 || !singleUnderlying(pool.legs, idxs) {
			continue
		}
		candidates = append(candidates, orderGroup{ref: ref, idxs: idxs, latest: latestByRef[ref]})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].idxs) != len(candidates[j].idxs) {
			return len(candidates[i].idxs) > len(candidates[j].idxs)
		}
		if !candidates[i].latest.Equal(candidates[j].latest) {
			return candidates[i].latest.After(candidates[j].latest)
		}
		return candidates[i].ref < candidates[j].ref
	})

	var groups [][]int
	for _, cand := range candidates {
		var idxs []int
		for _, i := range cand.idxs {
			if !pool.assigned[i] {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) < 2 {
			continue
		}
		pool.take(idxs)
		groups = append(groups, idxs)
	}
	return groups
}

// fallbackGroups buckets whatever pass 2 left behind. A same-ticker pair of
// same-type, opposite-side legs across two expiries is kept together as a
// diagonal; everything else buckets by (ticker, expiry).
func fallbackGroups(pool *legPool) [][]int {
	var groups [][]int

	byTicker := make(map[string][]int)
	var tickers []string
	for _, i := range pool.availableIdxs() {
		t := pool.legs[i].Underlying
		if _, ok := byTicker[t]; !ok {
			tickers = append(tickers, t)
		}
		byTicker[t] = append(byTicker[t], i)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		idxs := byTicker[ticker]
		if pair, ok := diagonalPair(pool.legs, idxs); ok {
			pool.take(pair)
			groups = append(groups, pair)
			continue
		}

		byExpiry := make(map[string][]int)
		var expiries []string
		for _, i := range idxs {
			key := pool.legs[i].Expiry.Format("2006-01-02")
			if _, ok := byExpiry[key]; !ok {
				expiries = append(expiries, key)
			}
			byExpiry[key] = append(byExpiry[key], i)
		}
		sort.Strings(expiries)
		for _, exp := range expiries {
			g := byExpiry[exp]
			pool.take(g)
			groups = append(groups, g)
		}
	}
	return groups
}

// diagonalPair reports whether the ticker's leftover legs are exactly a
// two-leg diagonal: same option type, opposite sides, different expiries.
func diagonalPair(legs []models.OptionLeg, idxs []int) ([]int, bool) {
	if len(idxs) != 2 {
		return nil, false
	}
	a, b := &legs[idxs[0]], &legs[idxs[1]]
	if a.Type != b.Type || a.IsLong() == b.IsLong() || a.Expiry.Equal(b.Expiry) {
		return nil, false
	}
	return idxs, true
}

func singleUnderlying(legs []models.OptionLeg, idxs []int) bool {
	for _, i := range idxs[1:] {
		if legs[i].Underlying != legs[idxs[0]].Underlying {
			return false
		}
	}
	return true
}

func canonicalExecSymbol(symbol string) string {
	underlying, expiry, strike, typ, err := models.ParseOptionSymbol(symbol)
	if err != nil {
		return ""
	}
	return models.OptionSymbol(underlying, expiry, strike, typ)
}

// matchedPosition carries the known trade's recorded strategy and risk
// numbers unchanged, refreshing only the live fields: quantity, expiry and
// unrealized/realized P/L come from the current legs.
func matchedPosition(t *models.Trade, legs []models.OptionLeg, idxs []int) models.ReconciledPosition {
	group := pick(legs, idxs)
	c := classify.Classify(group)
	pos := models.ReconciledPosition{
		ID:              t.ID,
		Underlying:      t.Underlying,
		Strategy:        t.Strategy,
		Bias:            t.Bias,
		Units:           c.Units,
		Legs:            sortedUniqueSymbols(group),
		Status:          models.StatusOpen,
		Provenance:      models.ProvenanceMatched,
		Expiration:      earliestExpiry(group),
		Quantity:        c.Units,
		NetDebit:        t.NetDebit,
		NetCredit:       t.NetCredit,
		MaxRisk:         t.MaxRisk,
		MaxProfit:       t.MaxProfit,
		UnboundedProfit: t.UnboundedProfit,
		Breakevens:      t.Breakevens,
	}
	if pos.Underlying == "" && len(group) > 0 {
		pos.Underlying = group[0].Underlying
	}
	pos.UnrealizedPL = sumOptional(group, func(l *models.OptionLeg) decimal.NullDecimal { return l.UnrealizedPL })
	pos.RealizedPL = sumOptional(group, func(l *models.OptionLeg) decimal.NullDecimal { return l.RealizedPL })
	return pos
}

// derivedPosition classifies and prices a leg group synthesized by the
// grouping passes. Dollar fields round to 2 decimals and breakevens to 4 at
// this emission boundary.
func derivedPosition(legs []models.OptionLeg, idxs []int) models.ReconciledPosition {
	group := pick(legs, idxs)
	c := classify.Classify(group)
	profile := risk.Compute(c, group)

	pos := models.ReconciledPosition{
		ID:              uuid.New().String(),
		Strategy:        c.Strategy,
		Bias:            c.Bias,
		Units:           c.Units,
		Legs:            sortedUniqueSymbols(group),
		Status:          models.StatusOpen,
		Provenance:      models.ProvenanceDerived,
		Expiration:      earliestExpiry(group),
		Quantity:        c.Units,
		NetDebit:        profile.NetDebit.Round(2),
		NetCredit:       profile.NetCredit.Round(2),
		MaxRisk:         roundOptional(profile.MaxRisk, 2),
		MaxProfit:       roundOptional(profile.MaxProfit, 2),
		UnboundedProfit: profile.UnboundedProfit,
	}
	if len(group) > 0 {
		pos.Underlying = group[0].Underlying
	}
	for _, be := range profile.Breakevens {
		pos.Breakevens = append(pos.Breakevens, be.Round(4))
	}
	pos.UnrealizedPL = sumOptional(group, func(l *models.OptionLeg) decimal.NullDecimal { return l.UnrealizedPL })
	pos.RealizedPL = sumOptional(group, func(l *models.OptionLeg) decimal.NullDecimal { return l.RealizedPL })
	return pos
}

func pick(legs []models.OptionLeg, idxs []int) []models.OptionLeg {
	group := make([]models.OptionLeg, 0, len(idxs))
	for _, i := range idxs {
		group = append(group, legs[i])
	}
	return group
}

func sortedUniqueSymbols(group []models.OptionLeg) []string {
	seen := make(map[string]bool, len(group))
	var syms []string
	for i := range group {
		if !seen[group[i].Symbol] {
			seen[group[i].Symbol] = true
			syms = append(syms, group[i].Symbol)
		}
	}
	sort.Strings(syms)
	return syms
}

func earliestExpiry(group []models.OptionLeg) time.Time {
	var earliest time.Time
	for i := range group {
		if earliest.IsZero() || group[i].Expiry.Before(earliest) {
			earliest = group[i].Expiry
		}
	}
	return earliest
}

// roundOptional rounds an optional value to the given number of decimal
// places, staying null when the value is null.
func roundOptional(v decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: v.Decimal.Round(places), Valid: true}
}

// sumOptional adds an optional field across legs, staying null when no leg
// carried a value.
func sumOptional(group []models.OptionLeg, f func(*models.OptionLeg) decimal.NullDecimal) decimal.NullDecimal {
	total := decimal.Zero
	any := false
	for i := range group {
		if v := f(&group[i]); v.Valid {
			total = total.Add(v.Decimal)
			any = true
		}
	}
	if !any {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: total.Round(2), Valid: true}
}
