package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/riskgate/backtest"
	"github.com/rustyeddy/riskgate/indicators"
	"github.com/rustyeddy/riskgate/laws"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
)

// Config represents the complete engine configuration.
type Config struct {
	Account    AccountConfig               `json:"account" yaml:"account"`
	Laws       laws.Config                 `json:"laws" yaml:"laws"`
	Ladder     []risk.Tier                 `json:"ladder" yaml:"ladder"`
	Regimes    map[string]float64          `json:"regimes" yaml:"regimes"`
	Brain      BrainConfig                 `json:"brain" yaml:"brain"`
	Costs      sim.CostModel               `json:"costs" yaml:"costs"`
	Classifier indicators.ClassifierConfig `json:"classifier" yaml:"classifier"`
	Journal    JournalConfig               `json:"journal" yaml:"journal"`
	Packs      []backtest.PackSpec         `json:"packs,omitempty" yaml:"packs,omitempty"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// BrainConfig contains the triage guards not covered by ladder and regimes.
type BrainConfig struct {
	Floor            float64 `json:"floor" yaml:"floor"`
	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions"`
	MinRR            float64 `json:"min_rr" yaml:"min_rr"`
}

// JournalConfig contains ledger persistence parameters.
type JournalConfig struct {
	Type           string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile     string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	RejectionsFile string `json:"rejections_file,omitempty" yaml:"rejections_file,omitempty"`
	EquityFile     string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns a runnable configuration with conservative guards.
func Default() Config {
	return Config{
		Account: AccountConfig{
			ID:       "sim",
			Currency: "USD",
			Balance:  10000,
		},
		Laws: laws.Config{
			MaxStopPips:         15,
			WinnerRR:            2.5,
			BreakevenBufferPips: 1,
			ZombieBars:          50,
			ZombieStepPips:      5,
		},
		Ladder: []risk.Tier{
			{Threshold: 0.00, Multiplier: 1.0},
			{Threshold: 0.05, Multiplier: 0.75},
			{Threshold: 0.10, Multiplier: 0.5},
			{Threshold: 0.20, Multiplier: 0.25},
		},
		Regimes: regimeStrings(risk.DefaultRegimeTable()),
		Brain: BrainConfig{
			Floor:            0.1,
			MaxOpenPositions: 5,
			MinRR:            1.5,
		},
		Costs: sim.CostModel{
			FeePerUnit:  0,
			SlippageBps: 0.5,
		},
		Classifier: indicators.DefaultClassifierConfig(),
		Journal:    JournalConfig{Type: "none"},
	}
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if jerr := json.Unmarshal(data, &cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if hasSuffix(path, ".yaml") || hasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if err := c.Laws.Validate(); err != nil {
		return err
	}
	if _, err := risk.NewLadder(c.Ladder); err != nil {
		return err
	}
	if _, err := c.RegimeTable(); err != nil {
		return err
	}
	if err := c.Costs.Validate(); err != nil {
		return err
	}
	if c.Brain.Floor < 0 || c.Brain.Floor > 1 {
		return fmt.Errorf("brain.floor %.3f outside [0, 1]", c.Brain.Floor)
	}
	if c.Brain.MaxOpenPositions < 0 {
		return fmt.Errorf("brain.max_open_positions must not be negative")
	}
	switch c.Journal.Type {
	case "", "none", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type %q unknown (none, csv, sqlite)", c.Journal.Type)
	}
	for _, p := range c.Packs {
		if p.Name == "" {
			return fmt.Errorf("pack without a name")
		}
		if _, ok := market.Instruments[p.Instrument]; !ok {
			return fmt.Errorf("pack %q: unknown instrument %q", p.Name, p.Instrument)
		}
	}
	return nil
}

// RegimeTable converts the string-keyed config section to the typed table.
func (c *Config) RegimeTable() (risk.RegimeTable, error) {
	table := make(risk.RegimeTable, len(c.Regimes))
	for label, mult := range c.Regimes {
		r, err := risk.ParseRegime(label)
		if err != nil {
			return nil, err
		}
		table[r] = mult
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// BuildBrain assembles the triage brain from the config sections.
func (c *Config) BuildBrain() (risk.Brain, error) {
	ladder, err := risk.NewLadder(c.Ladder)
	if err != nil {
		return risk.Brain{}, err
	}
	table, err := c.RegimeTable()
	if err != nil {
		return risk.Brain{}, err
	}
	return risk.Brain{
		Ladder:           ladder,
		Regimes:          table,
		Floor:            c.Brain.Floor,
		MaxOpenPositions: c.Brain.MaxOpenPositions,
		MinRR:            c.Brain.MinRR,
	}, nil
}

func regimeStrings(t risk.RegimeTable) map[string]float64 {
	out := make(map[string]float64, len(t))
	for r, m := range t {
		out[string(r)] = m
	}
	return out
}
