package models

// Strategy is the closed enumeration of recognized multi-leg option
// strategies. Unrecognized leg shapes always resolve to StrategyCustom;
// callers must not treat Custom as an error.
type Strategy string

const (
	// StrategyLongCall is a single long call.
	StrategyLongCall Strategy = "Long Call"
	// StrategyLongPut is a single long put.
	StrategyLongPut Strategy = "Long Put"
	// StrategyBullCallSpread is a debit call vertical.
	StrategyBullCallSpread Strategy = "Bull Call Spread"
	// StrategyBearPutSpread is a debit put vertical.
	StrategyBearPutSpread Strategy = "Bear Put Spread"
	// StrategyBullPutSpread is a credit put vertical.
	StrategyBullPutSpread Strategy = "Bull Put Spread"
	// StrategyBearCallSpread is a credit call vertical.
	StrategyBearCallSpread Strategy = "Bear Call Spread"
	// StrategyIronCondor is a four-leg put spread + call spread combination.
	StrategyIronCondor Strategy = "Iron Condor"
	// StrategyIronButterfly is an iron condor whose short strikes coincide.
	StrategyIronButterfly Strategy = "Iron Butterfly"
	// StrategyCallButterfly is a three-strike all-call butterfly.
	StrategyCallButterfly Strategy = "Call Butterfly"
	// StrategyPutButterfly is a three-strike all-put butterfly.
	StrategyPutButterfly Strategy = "Put Butterfly"
	// StrategyDiagonal is a two-leg same-type spread across expirations.
	StrategyDiagonal Strategy = "Diagonal"
	// StrategyCustom is any shape outside the recognized set.
	StrategyCustom Strategy = "Custom"
)

// Valid returns true if the Strategy is one of the defined constants.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyLongCall, StrategyLongPut,
		StrategyBullCallSpread, StrategyBearPutSpread,
		StrategyBullPutSpread, StrategyBearCallSpread,
		StrategyIronCondor, StrategyIronButterfly,
		StrategyCallButterfly, StrategyPutButterfly,
		StrategyDiagonal, StrategyCustom:
		return true
	default:
		return false
	}
}

// Bias is the directional market bias implied by a strategy.
type Bias string

const (
	// BiasBullish profits from the underlying rising.
	BiasBullish Bias = "bullish"
	// BiasBearish profits from the underlying falling.
	BiasBearish Bias = "bearish"
	// BiasNeutral has no directional preference.
	BiasNeutral Bias = "neutral"
)

// Classification is the classifier output for one leg group.
type Classification struct {
	Strategy Strategy `json:"strategy"`
	Bias     Bias     `json:"bias"`
	// Units is the contracts-per-unit multiplier: the greatest common
	// divisor of the leg quantities. A 2x bull call spread has Units == 2.
	Units int `json:"units"`
}
