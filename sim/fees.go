package sim

import "fmt"

// CostModel composes the deterministic fee and slippage charges applied at
// every fill and close. Determinism given the same inputs is what makes
// re-running an identical feed reproduce an identical ledger.
type CostModel struct {
	// FeePerUnit is the commission in account currency per unit traded.
	FeePerUnit float64 `yaml:"fee_per_unit" json:"fee_per_unit"`

	// SlippageBps charges basis points of (units × volatility proxy), where
	// the proxy is the high-low range of the bar the fill happened on.
	// Wider bars cost more to get out of.
	SlippageBps float64 `yaml:"slippage_bps" json:"slippage_bps"`
}

func (c CostModel) Validate() error {
	if c.FeePerUnit < 0 {
		return fmt.Errorf("costs.fee_per_unit must not be negative")
	}
	if c.SlippageBps < 0 {
		return fmt.Errorf("costs.slippage_bps must not be negative")
	}
	return nil
}

// Fee returns the commission for a fill of the given size.
func (c CostModel) Fee(units float64) float64 {
	return units * c.FeePerUnit
}

// Slippage returns the slippage charge for a fill of the given size on a bar
// with the given high-low range.
func (c CostModel) Slippage(units, volProxy float64) float64 {
	return units * volProxy * c.SlippageBps / 10000
}
