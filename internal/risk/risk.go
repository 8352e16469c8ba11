// Package risk computes the risk profile (net debit/credit, max risk, max
// profit, breakevens) for a classified leg group.
//
// Insufficient price data degrades the specific metric to null; the
// calculator never fabricates a zero and never returns a negative bound.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/classify"
	"github.com/ogostos/optledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Compute derives the risk profile for the legs under the given
// classification. The classification must come from the same leg group.
func Compute(c models.Classification, legs []models.OptionLeg) models.RiskProfile {
	flow, flowKnown := entryFlow(legs)
	nets := classify.Net(legs)

	profile := models.RiskProfile{}
	if flowKnown {
		if flow.IsPositive() {
			profile.NetDebit = flow
		} else {
			profile.NetCredit = flow.Neg()
		}
	}

	switch c.Strategy {
	case models.StrategyLongCall, models.StrategyLongPut:
		computeLongSingle(&profile, c, nets, flowKnown)
	case models.StrategyBullCallSpread, models.StrategyBearPutSpread:
		computeDebitVertical(&profile, c, nets, flowKnown)
	case models.StrategyBullPutSpread, models.StrategyBearCallSpread:
		computeCreditVertical(&profile, c, nets, flowKnown)
	case models.StrategyIronCondor, models.StrategyIronButterfly:
		computeIron(&profile, c, nets, flowKnown)
	case models.StrategyCallButterfly, models.StrategyPutButterfly:
		computeButterfly(&profile, c, nets, flowKnown)
	default:
		// Custom and Diagonal shapes: only the entry flow is trustworthy.
		computeCustom(&profile, flowKnown)
	}
	return profile
}

// entryFlow back-derives the net entry cash flow in dollars: positive is a
// debit, negative a credit. Per leg it prefers marketValue - unrealizedPL
// and falls back to the per-share entry premium scaled by 100 x contracts.
// A leg with neither is a pricing gap and the whole flow is unknown.
func entryFlow(legs []models.OptionLeg) (decimal.Decimal, bool) {
	total := decimal.Zero
	for i := range legs {
		l := &legs[i]
		switch {
		case l.MarketValue.Valid && l.UnrealizedPL.Valid:
			total = total.Add(l.MarketValue.Decimal.Sub(l.UnrealizedPL.Decimal))
		case l.AvgCost.Valid:
			total = total.Add(l.AvgCost.Decimal.Mul(hundred).Mul(decimal.NewFromInt(int64(l.Quantity))))
		default:
			return decimal.Zero, false
		}
	}
	return total, true
}

// perShare converts a dollar amount to a per-share price offset for the
// group's unit size.
func perShare(dollars decimal.Decimal, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return dollars.Div(hundred.Mul(decimal.NewFromInt(int64(units))))
}

func bounded(d decimal.Decimal) decimal.NullDecimal {
	// Entry-flow mis-signing must never propagate a negative bound.
	if d.IsNegative() {
		d = decimal.Zero
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func computeLongSingle(p *models.RiskProfile, c models.Classification, nets []classify.NetLeg, flowKnown bool) {
	p.UnboundedProfit = true
	if !flowKnown || len(nets) != 1 || c.Units <= 0 {
		return
	}
	debit := p.NetDebit
	p.MaxRisk = bounded(debit)
	offset := perShare(debit, c.Units)
	strike := nets[0].Strike
	if c.Strategy == models.StrategyLongCall {
		p.Breakevens = []decimal.Decimal{strike.Add(offset)}
	} else {
		p.Breakevens = []decimal.Decimal{strike.Sub(offset)}
	}
}

func computeDebitVertical(p *models.RiskProfile, c models.Classification, nets []classify.NetLeg, flowKnown bool) {
	long, short, ok := verticalLegs(nets)
	if !ok || !flowKnown || c.Units <= 0 {
		return
	}
	width := structuralWidth(long.Strike, short.Strike, c.Units)
	debit := p.NetDebit
	p.MaxRisk = bounded(debit)
	p.MaxProfit = bounded(width.Sub(debit))
	offset := perShare(debit, c.Units)
	if long.Type == models.OptionTypeCall {
		p.Breakevens = []decimal.Decimal{long.Strike.Add(offset)}
	} else {
		p.Breakevens = []decimal.Decimal{long.Strike.Sub(offset)}
	}
}

func computeCreditVertical(p *models.RiskProfile, c models.Classification, nets []classify.NetLeg, flowKnown bool) {
	long, short, ok := verticalLegs(nets)
	if !ok || !flowKnown || c.Units <= 0 {
		return
	}
	width := structuralWidth(long.Strike, short.Strike, c.Units)
	credit := p.NetCredit
	p.MaxProfit = bounded(credit)
	p.MaxRisk = bounded(width.Sub(credit))
	offset := perShare(credit, c.Units)
	if short.Type == models.OptionTypePut {
		p.Breakevens = []decimal.Decimal{short.Strike.Sub(offset)}
	} else {
		p.Breakevens = []decimal.Decimal{short.Strike.Add(offset)}
	}
}

// computeIron prices iron condors and iron butterflies. The width is the
// narrower wing. The lower breakeven derives from the credit at the put
// side; the mirrored upper breakeven is reported only when both wings have
// equal width; asymmetric shapes keep the single lower breakeven.
func computeIron(p *models.RiskProfile, c models.Classification, nets []classify.NetLeg, flowKnown bool) {
	if len(nets) != 4 || !flowKnown || c.Units <= 0 {
		return
	}
	var puts, calls []classify.NetLeg
	for _, n := range nets {
		if n.Type == models.OptionTypePut {
			puts = append(puts, n)
		} else {
			calls = append(calls, n)
		}
	}
	if len(puts) != 2 || len(calls) != 2 {
		return
	}
	putWing := puts[1].Strike.Sub(puts[0].Strike).Abs()
	callWing := calls[1].Strike.Sub(calls[0].Strike).Abs()
	wing := putWing
	if callWing.LessThan(wing) {
		wing = callWing
	}
	width := wing.Mul(hundred).Mul(decimal.NewFromInt(int64(c.Units)))
	credit := p.NetCredit
	p.MaxProfit = bounded(credit)
	p.MaxRisk = bounded(width.Sub(credit))

	offset := perShare(credit, c.Units)
	lowPut := puts[0].Strike
	if puts[1].Strike.LessThan(lowPut) {
		lowPut = puts[1].Strike
	}
	p.Breakevens = []decimal.Decimal{lowPut.Add(offset)}
	if putWing.Equal(callWing) {
		highCall := calls[0].Strike
		if calls[1].Strike.GreaterThan(highCall) {
			highCall = calls[1].Strike
		}
		p.Breakevens = append(p.Breakevens, highCall.Sub(offset))
	}
}

func computeButterfly(p *models.RiskProfile, c models.Classification, nets []classify.NetLeg, flowKnown bool) {
	if len(nets) != 3 || !flowKnown || c.Units <= 0 {
		return
	}
	low, mid, high := nets[0], nets[1], nets[2]
	lowerWing := mid.Strike.Sub(low.Strike)
	upperWing := high.Strike.Sub(mid.Strike)
	wing := lowerWing
	if upperWing.LessThan(wing) {
		wing = upperWing
	}
	width := wing.Mul(hundred).Mul(decimal.NewFromInt(int64(c.Units)))

	if p.NetCredit.IsPositive() {
		credit := p.NetCredit
		p.MaxProfit = bounded(credit)
		p.MaxRisk = bounded(width.Sub(credit))
		p.Breakevens = []decimal.Decimal{low.Strike.Add(perShare(credit, c.Units))}
		return
	}
	debit := p.NetDebit
	p.MaxRisk = bounded(debit)
	p.MaxProfit = bounded(width.Sub(debit))
	p.Breakevens = []decimal.Decimal{low.Strike.Add(perShare(debit, c.Units))}
}

func computeCustom(p *models.RiskProfile, flowKnown bool) {
	if !flowKnown {
		return
	}
	risk := p.NetDebit
	if p.NetCredit.GreaterThan(risk) {
		risk = p.NetCredit
	}
	p.MaxRisk = bounded(risk)
	if p.NetCredit.IsPositive() {
		p.MaxProfit = bounded(p.NetCredit)
	}
}

// verticalLegs extracts the long and short leg of a two-bucket same-type
// vertical.
func verticalLegs(nets []classify.NetLeg) (long, short classify.NetLeg, ok bool) {
	if len(nets) != 2 || nets[0].Type != nets[1].Type || nets[0].Long() == nets[1].Long() {
		return classify.NetLeg{}, classify.NetLeg{}, false
	}
	long, short = nets[0], nets[1]
	if short.Long() {
		long, short = short, long
	}
	return long, short, true
}

func structuralWidth(a, b decimal.Decimal, units int) decimal.Decimal {
	return a.Sub(b).Abs().Mul(hundred).Mul(decimal.NewFromInt(int64(units)))
}
