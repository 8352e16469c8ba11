package classify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ogostos/optledger/internal/models"
)

var (
	mar  = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	jun  = time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	tick = "SPY"
)

func leg(strike float64, typ models.OptionType, qty int, expiry time.Time) models.OptionLeg {
	s := decimal.NewFromFloat(strike)
	return models.OptionLeg{
		Underlying: tick,
		Expiry:     expiry,
		Strike:     s,
		Type:       typ,
		Quantity:   qty,
		Symbol:     models.OptionSymbol(tick, expiry, s, typ),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		legs     []models.OptionLeg
		strategy models.Strategy
		bias     models.Bias
		units    int
	}{
		{
			name:     "long call",
			legs:     []models.OptionLeg{leg(300, models.OptionTypeCall, 2, mar)},
			strategy: models.StrategyLongCall,
			bias:     models.BiasBullish,
			units:    2,
		},
		{
			name:     "long put",
			legs:     []models.OptionLeg{leg(280, models.OptionTypePut, 1, mar)},
			strategy: models.StrategyLongPut,
			bias:     models.BiasBearish,
			units:    1,
		},
		{
			name:     "naked short call is custom",
			legs:     []models.OptionLeg{leg(300, models.OptionTypeCall, -1, mar)},
			strategy: models.StrategyCustom,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "bull call spread",
			legs: []models.OptionLeg{
				leg(290, models.OptionTypeCall, 1, mar),
				leg(320, models.OptionTypeCall, -1, mar),
			},
			strategy: models.StrategyBullCallSpread,
			bias:     models.BiasBullish,
			units:    1,
		},
		{
			name: "bear call spread",
			legs: []models.OptionLeg{
				leg(320, models.OptionTypeCall, 1, mar),
				leg(290, models.OptionTypeCall, -1, mar),
			},
			strategy: models.StrategyBearCallSpread,
			bias:     models.BiasBearish,
			units:    1,
		},
		{
			name: "bull put spread",
			legs: []models.OptionLeg{
				leg(280, models.OptionTypePut, 1, mar),
				leg(300, models.OptionTypePut, -1, mar),
			},
			strategy: models.StrategyBullPutSpread,
			bias:     models.BiasBullish,
			units:    1,
		},
		{
			name: "bear put spread",
			legs: []models.OptionLeg{
				leg(300, models.OptionTypePut, 1, mar),
				leg(280, models.OptionTypePut, -1, mar),
			},
			strategy: models.StrategyBearPutSpread,
			bias:     models.BiasBearish,
			units:    1,
		},
		{
			name: "iron condor",
			legs: []models.OptionLeg{
				leg(160, models.OptionTypePut, -1, mar),
				leg(165, models.OptionTypePut, 1, mar),
				leg(205, models.OptionTypeCall, -1, mar),
				leg(210, models.OptionTypeCall, 1, mar),
			},
			strategy: models.StrategyIronCondor,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "iron butterfly shares short strike",
			legs: []models.OptionLeg{
				leg(180, models.OptionTypePut, 1, mar),
				leg(200, models.OptionTypePut, -1, mar),
				leg(200, models.OptionTypeCall, -1, mar),
				leg(220, models.OptionTypeCall, 1, mar),
			},
			strategy: models.StrategyIronButterfly,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "call butterfly",
			legs: []models.OptionLeg{
				leg(290, models.OptionTypeCall, 1, mar),
				leg(300, models.OptionTypeCall, -2, mar),
				leg(310, models.OptionTypeCall, 1, mar),
			},
			strategy: models.StrategyCallButterfly,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "put butterfly scaled",
			legs: []models.OptionLeg{
				leg(290, models.OptionTypePut, 2, mar),
				leg(300, models.OptionTypePut, -4, mar),
				leg(310, models.OptionTypePut, 2, mar),
			},
			strategy: models.StrategyPutButterfly,
			bias:     models.BiasNeutral,
			units:    2,
		},
		{
			name: "uneven butterfly wings are custom",
			legs: []models.OptionLeg{
				leg(290, models.OptionTypeCall, 1, mar),
				leg(300, models.OptionTypeCall, -2, mar),
				leg(315, models.OptionTypeCall, 1, mar),
			},
			strategy: models.StrategyCustom,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "diagonal",
			legs: []models.OptionLeg{
				leg(300, models.OptionTypeCall, 1, jun),
				leg(310, models.OptionTypeCall, -1, mar),
			},
			strategy: models.StrategyDiagonal,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "mixed expiry four legs are custom",
			legs: []models.OptionLeg{
				leg(160, models.OptionTypePut, -1, mar),
				leg(165, models.OptionTypePut, 1, jun),
				leg(205, models.OptionTypeCall, -1, mar),
				leg(210, models.OptionTypeCall, 1, mar),
			},
			strategy: models.StrategyCustom,
			bias:     models.BiasNeutral,
			units:    1,
		},
		{
			name: "custom inherits dominant long leg bias",
			legs: []models.OptionLeg{
				leg(300, models.OptionTypeCall, 3, mar),
				leg(310, models.OptionTypeCall, -1, mar),
				leg(320, models.OptionTypeCall, -1, mar),
			},
			strategy: models.StrategyCustom,
			bias:     models.BiasBullish,
			units:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.legs)
			if got.Strategy != tt.strategy {
				t.Errorf("strategy = %q, expected %q", got.Strategy, tt.strategy)
			}
			if got.Bias != tt.bias {
				t.Errorf("bias = %q, expected %q", got.Bias, tt.bias)
			}
			if got.Units != tt.units {
				t.Errorf("units = %d, expected %d", got.Units, tt.units)
			}
		})
	}
}

func TestNetCancelsOffsettingLots(t *testing.T) {
	legs := []models.OptionLeg{
		leg(290, models.OptionTypeCall, 3, mar),
		leg(290, models.OptionTypeCall, -3, mar),
		leg(320, models.OptionTypeCall, 1, mar),
	}
	nets := Net(legs)
	if len(nets) != 1 {
		t.Fatalf("net buckets = %d, expected 1", len(nets))
	}
	if !nets[0].Strike.Equal(decimal.NewFromInt(320)) || nets[0].Qty != 1 {
		t.Errorf("surviving bucket = %+v, expected strike 320 qty 1", nets[0])
	}

	// The 290 lots offset entirely, so the residual classifies as a single.
	got := Classify(legs)
	if got.Strategy != models.StrategyLongCall {
		t.Errorf("strategy = %q, expected %q", got.Strategy, models.StrategyLongCall)
	}
}

func TestNetOrdersByStrikeThenType(t *testing.T) {
	legs := []models.OptionLeg{
		leg(210, models.OptionTypeCall, 1, mar),
		leg(200, models.OptionTypeCall, -1, mar),
		leg(200, models.OptionTypePut, -1, mar),
		leg(190, models.OptionTypePut, 1, mar),
	}
	nets := Net(legs)
	if len(nets) != 4 {
		t.Fatalf("net buckets = %d, expected 4", len(nets))
	}
	wantStrikes := []int64{190, 200, 200, 210}
	for i, w := range wantStrikes {
		if !nets[i].Strike.Equal(decimal.NewFromInt(w)) {
			t.Errorf("nets[%d].Strike = %s, expected %d", i, nets[i].Strike, w)
		}
	}
	if nets[1].Type != models.OptionTypePut || nets[2].Type != models.OptionTypeCall {
		t.Errorf("equal strikes should order put before call, got %q then %q", nets[1].Type, nets[2].Type)
	}
}
