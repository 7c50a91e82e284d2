package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEngagement() Engagement {
	return Engagement{
		Instrument: "EUR_USD",
		Side:       Long,
		Entry:      1.1000,
		StopPips:   10,
		Takes: []TakeLevel{
			{Pips: 10, Fraction: 0.5},
			{Pips: 20, Fraction: 0.5},
		},
		Units: 1000,
	}
}

func TestEngagementValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Engagement)
		wantErr bool
	}{
		{"valid", func(e *Engagement) {}, false},
		{"short side", func(e *Engagement) { e.Side = Short }, false},
		{"single full take", func(e *Engagement) {
			e.Takes = []TakeLevel{{Pips: 30, Fraction: 1.0}}
		}, false},
		{"fractions under one", func(e *Engagement) {
			e.Takes = []TakeLevel{{Pips: 10, Fraction: 0.3}, {Pips: 20, Fraction: 0.3}}
		}, false},
		{"zero side", func(e *Engagement) { e.Side = 0 }, true},
		{"zero units", func(e *Engagement) { e.Units = 0 }, true},
		{"negative units", func(e *Engagement) { e.Units = -5 }, true},
		{"zero entry", func(e *Engagement) { e.Entry = 0 }, true},
		{"zero stop", func(e *Engagement) { e.StopPips = 0 }, true},
		{"no takes", func(e *Engagement) { e.Takes = nil }, true},
		{"zero take distance", func(e *Engagement) { e.Takes[0].Pips = 0 }, true},
		{"takes not ascending", func(e *Engagement) {
			e.Takes = []TakeLevel{{Pips: 20, Fraction: 0.5}, {Pips: 10, Fraction: 0.5}}
		}, true},
		{"duplicate take level", func(e *Engagement) {
			e.Takes = []TakeLevel{{Pips: 10, Fraction: 0.5}, {Pips: 10, Fraction: 0.5}}
		}, true},
		{"zero fraction", func(e *Engagement) { e.Takes[0].Fraction = 0 }, true},
		{"fraction above one", func(e *Engagement) { e.Takes[0].Fraction = 1.1 }, true},
		{"fractions sum above one", func(e *Engagement) {
			e.Takes = []TakeLevel{{Pips: 10, Fraction: 0.7}, {Pips: 20, Fraction: 0.7}}
		}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := validEngagement()
			tc.mutate(&e)
			err := e.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRewardPipsIsNearestTake(t *testing.T) {
	t.Parallel()
	e := validEngagement()
	assert.InDelta(t, 10, e.RewardPips(), 1e-9)
}

func TestCostModel(t *testing.T) {
	t.Parallel()
	m := CostModel{FeePerUnit: 0.002, SlippageBps: 3}
	require.NoError(t, m.Validate())

	assert.InDelta(t, 2.0, m.Fee(1000), 1e-9)
	assert.InDelta(t, 1000*0.0010*3/10000, m.Slippage(1000, 0.0010), 1e-12)

	var zero CostModel
	require.NoError(t, zero.Validate())
	assert.Zero(t, zero.Fee(1000))
	assert.Zero(t, zero.Slippage(1000, 0.0010))

	assert.Error(t, CostModel{FeePerUnit: -1}.Validate())
	assert.Error(t, CostModel{SlippageBps: -1}.Validate())
}

func TestSideString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "long", Long.String())
	assert.Equal(t, "short", Short.String())
}
