package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// StrategyConfig contains the trend-rule parameters
type StrategyConfig struct {
	// Lookback is the rolling-average window in trading days (>= 2).
	Lookback int `json:"lookback_window_days" yaml:"lookback_window_days"`

	// SignalSymbol is the index whose closes drive the trend state.
	SignalSymbol string `json:"signal_symbol" yaml:"signal_symbol"`

	// BullSymbol is the leveraged ETF held while the trend is above.
	BullSymbol string `json:"bull_symbol" yaml:"bull_symbol"`

	// BearSymbol is the leveraged inverse ETF held while below, only when
	// ShortsEnabled is set.
	BearSymbol    string `json:"bear_symbol,omitempty" yaml:"bear_symbol,omitempty"`
	ShortsEnabled bool   `json:"shorts_enabled" yaml:"shorts_enabled"`

	// CostFraction is the transaction cost applied once per transition,
	// as a fraction of equity (0 disables).
	CostFraction float64 `json:"transaction_cost_fraction" yaml:"transaction_cost_fraction"`

	// RiskFreeRate is the annualized rate earned while in cash and
	// subtracted from daily returns for the Sharpe ratio.
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// DataConfig points at the price-series source
type DataConfig struct {
	// Dir is the directory of per-symbol CSV files (date,close).
	Dir string `json:"dir" yaml:"dir"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid. Validation failures are
// fatal at setup, before any price data is touched.
func (c *Config) Validate() error {
	if c.Strategy.Lookback < 2 {
		return fmt.Errorf("strategy.lookback_window_days must be >= 2, got %d", c.Strategy.Lookback)
	}
	if c.Strategy.SignalSymbol == "" {
		return fmt.Errorf("strategy.signal_symbol is required")
	}
	if c.Strategy.BullSymbol == "" {
		return fmt.Errorf("strategy.bull_symbol is required")
	}
	if c.Strategy.ShortsEnabled && c.Strategy.BearSymbol == "" {
		return fmt.Errorf("strategy.bear_symbol required when shorts_enabled is true")
	}
	if !c.Strategy.ShortsEnabled && c.Strategy.BearSymbol != "" {
		return fmt.Errorf("strategy.bear_symbol set but shorts_enabled is false")
	}
	if c.Strategy.CostFraction < 0 || c.Strategy.CostFraction >= 1 {
		return fmt.Errorf("strategy.transaction_cost_fraction must be in [0, 1), got %v", c.Strategy.CostFraction)
	}
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive, got %v", c.Account.InitialCapital)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: the NASDAQ-100
// 250-day rule trading TQQQ, shorts off.
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			Lookback:     250,
			SignalSymbol: "^NDX",
			BullSymbol:   "TQQQ",
		},
		Account: AccountConfig{
			InitialCapital: 100_000,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}

// Symbols returns the instrument set the engine must load: signal, bull,
// and bear when shorts are enabled.
func (c *Config) Symbols() []string {
	syms := []string{c.Strategy.SignalSymbol, c.Strategy.BullSymbol}
	if c.Strategy.ShortsEnabled {
		syms = append(syms, c.Strategy.BearSymbol)
	}
	return syms
}
