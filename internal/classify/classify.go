// Package classify maps a group of option legs sharing one underlying to a
// named strategy and an implied directional bias.
//
// Classification is a total function: every non-empty leg group resolves to
// exactly one strategy, with unrecognized shapes mapping to Custom rather
// than failing.
package classify

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/models"
)

// NetLeg is one (strike, type, expiry) bucket after offsetting legs cancel.
type NetLeg struct {
	Strike decimal.Decimal
	Type   models.OptionType
	Expiry time.Time
	Qty    int
}

// Long reports a net-long (positive quantity) bucket.
func (n *NetLeg) Long() bool { return n.Qty > 0 }

// Classify returns the strategy classification for a non-empty leg group.
// An empty group is a caller error and classifies as Custom with zero units.
func Classify(legs []models.OptionLeg) models.Classification {
	nets := Net(legs)
	units := gcdUnits(nets)
	custom := models.Classification{Strategy: models.StrategyCustom, Bias: customBias(nets), Units: units}

	switch len(nets) {
	case 0:
		return custom
	case 1:
		return classifySingle(nets[0], units, custom)
	case 2:
		return classifyPair(nets, units, custom)
	}
	if c, ok := classifyCondor(nets, units); ok {
		return c
	}
	if c, ok := classifyButterfly(nets, units); ok {
		return c
	}
	return custom
}

func classifySingle(n NetLeg, units int, custom models.Classification) models.Classification {
	if !n.Long() {
		// Naked shorts are not auto-classified as a defined strategy.
		return custom
	}
	if n.Type == models.OptionTypeCall {
		return models.Classification{Strategy: models.StrategyLongCall, Bias: models.BiasBullish, Units: units}
	}
	return models.Classification{Strategy: models.StrategyLongPut, Bias: models.BiasBearish, Units: units}
}

func classifyPair(nets []NetLeg, units int, custom models.Classification) models.Classification {
	a, b := nets[0], nets[1]
	if a.Type != b.Type || a.Long() == b.Long() {
		return custom
	}
	long, short := a, b
	if b.Long() {
		long, short = b, a
	}
	if !long.Expiry.Equal(short.Expiry) {
		// Same type, opposite sides, different expiry: a diagonal, which is
		// a recognized case distinct from the vertical spread.
		return models.Classification{Strategy: models.StrategyDiagonal, Bias: models.BiasNeutral, Units: units}
	}
	if long.Strike.Equal(short.Strike) {
		return custom
	}
	longLower := long.Strike.LessThan(short.Strike)
	if long.Type == models.OptionTypeCall {
		if longLower {
			return models.Classification{Strategy: models.StrategyBullCallSpread, Bias: models.BiasBullish, Units: units}
		}
		return models.Classification{Strategy: models.StrategyBearCallSpread, Bias: models.BiasBearish, Units: units}
	}
	if longLower {
		return models.Classification{Strategy: models.StrategyBullPutSpread, Bias: models.BiasBullish, Units: units}
	}
	return models.Classification{Strategy: models.StrategyBearPutSpread, Bias: models.BiasBearish, Units: units}
}

// classifyCondor recognizes the four-leg two-puts-plus-two-calls shape where
// each type pair has one long and one short leg on a single expiry. When the
// two short strikes coincide the shape is an iron butterfly.
func classifyCondor(nets []NetLeg, units int) (models.Classification, bool) {
	if len(nets) != 4 || !sameExpiry(nets) {
		return models.Classification{}, false
	}
	var puts, calls []NetLeg
	for _, n := range nets {
		if n.Type == models.OptionTypePut {
			puts = append(puts, n)
		} else {
			calls = append(calls, n)
		}
	}
	if len(puts) != 2 || len(calls) != 2 {
		return models.Classification{}, false
	}
	if puts[0].Long() == puts[1].Long() || calls[0].Long() == calls[1].Long() {
		return models.Classification{}, false
	}
	shortPut, shortCall := puts[0], calls[0]
	if puts[0].Long() {
		shortPut = puts[1]
	}
	if calls[0].Long() {
		shortCall = calls[1]
	}
	strategy := models.StrategyIronCondor
	if shortPut.Strike.Equal(shortCall.Strike) {
		strategy = models.StrategyIronButterfly
	}
	return models.Classification{Strategy: strategy, Bias: models.BiasNeutral, Units: units}, true
}

// classifyButterfly recognizes same-type three-strike shapes with long wings
// around a net-short body twice the wing size and equal wing widths.
func classifyButterfly(nets []NetLeg, units int) (models.Classification, bool) {
	if len(nets) != 3 || !sameExpiry(nets) {
		return models.Classification{}, false
	}
	typ := nets[0].Type
	for _, n := range nets {
		if n.Type != typ {
			return models.Classification{}, false
		}
	}
	low, mid, high := nets[0], nets[1], nets[2]
	if !low.Long() || !high.Long() || mid.Long() {
		return models.Classification{}, false
	}
	if low.Qty != high.Qty || mid.Qty != -2*low.Qty {
		return models.Classification{}, false
	}
	lowerWing := mid.Strike.Sub(low.Strike)
	upperWing := high.Strike.Sub(mid.Strike)
	if !lowerWing.Equal(upperWing) || !lowerWing.IsPositive() {
		return models.Classification{}, false
	}
	strategy := models.StrategyCallButterfly
	if typ == models.OptionTypePut {
		strategy = models.StrategyPutButterfly
	}
	return models.Classification{Strategy: strategy, Bias: models.BiasNeutral, Units: units}, true
}

// customBias is Neutral unless a single dominant long leg exists, in which
// case the group inherits that leg's natural bias.
func customBias(nets []NetLeg) models.Bias {
	var longs []NetLeg
	for _, n := range nets {
		if n.Long() {
			longs = append(longs, n)
		}
	}
	if len(longs) != 1 {
		return models.BiasNeutral
	}
	if longs[0].Type == models.OptionTypeCall {
		return models.BiasBullish
	}
	return models.BiasBearish
}

// Net nets quantities per (strike, type, expiry) bucket so offsetting
// legs cancel before pattern matching, then sorts the surviving buckets by
// strike, put before call, earlier expiry first.
func Net(legs []models.OptionLeg) []NetLeg {
	byKey := make(map[string]*NetLeg, len(legs))
	order := make([]string, 0, len(legs))
	for i := range legs {
		l := &legs[i]
		key := l.Symbol
		if b, ok := byKey[key]; ok {
			b.Qty += l.Quantity
			continue
		}
		byKey[key] = &NetLeg{Strike: l.Strike, Type: l.Type, Expiry: l.Expiry, Qty: l.Quantity}
		order = append(order, key)
	}
	nets := make([]NetLeg, 0, len(order))
	for _, key := range order {
		if b := byKey[key]; b.Qty != 0 {
			nets = append(nets, *b)
		}
	}
	sort.SliceStable(nets, func(i, j int) bool {
		if !nets[i].Strike.Equal(nets[j].Strike) {
			return nets[i].Strike.LessThan(nets[j].Strike)
		}
		if nets[i].Type != nets[j].Type {
			return nets[i].Type == models.OptionTypePut
		}
		return nets[i].Expiry.Before(nets[j].Expiry)
	})
	return nets
}

func sameExpiry(nets []NetLeg) bool {
	for i := 1; i < len(nets); i++ {
		if !nets[i].Expiry.Equal(nets[0].Expiry) {
			return false
		}
	}
	return true
}

// gcdUnits is the GCD-like common multiplier across net leg quantities.
func gcdUnits(nets []NetLeg) int {
	g := 0
	for _, n := range nets {
		q := n.Qty
		if q < 0 {
			q = -q
		}
		g = gcd(g, q)
	}
	return g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
