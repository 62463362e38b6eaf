// Package config holds the backtest configuration: every strategy tunable is
// enumerated here and passed into the simulator at construction.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/sim"
	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Market   MarketConfig   `json:"market" yaml:"market"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Leverage LeverageConfig `json:"leverage" yaml:"leverage"`
	Session  SessionConfig  `json:"session" yaml:"session"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// MarketConfig identifies the instrument and candle feed
type MarketConfig struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Interval string `json:"interval" yaml:"interval"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	BaseCapital float64 `json:"base_capital" yaml:"base_capital"`
}

// LeverageConfig contains the leverage tiers and the adaptive toggle
type LeverageConfig struct {
	Standard           float64 `json:"standard" yaml:"standard"`
	Defensive          float64 `json:"defensive" yaml:"defensive"`
	OpposingMultiplier float64 `json:"opposing_multiplier" yaml:"opposing_multiplier"`
	Adaptive           bool    `json:"adaptive" yaml:"adaptive"`
}

// SessionConfig pins the opening-range and trading windows (exchange time)
type SessionConfig struct {
	RangeStart       string `json:"range_start" yaml:"range_start"` // "05:30"
	RangeEnd         string `json:"range_end" yaml:"range_end"`     // "06:00"
	TradingStartHour int    `json:"trading_start_hour" yaml:"trading_start_hour"`
	EndOfDayHour     int    `json:"end_of_day_hour" yaml:"end_of_day_hour"`
	MorningOnly      bool   `json:"morning_only" yaml:"morning_only"`
	MorningEndHour   int    `json:"morning_end_hour" yaml:"morning_end_hour"`
}

// StrategyConfig contains breakout strategy parameters
type StrategyConfig struct {
	MaxBreakouts       int        `json:"max_breakouts" yaml:"max_breakouts"`
	MinRange           float64    `json:"min_range" yaml:"min_range"`
	MaxRange           float64    `json:"max_range" yaml:"max_range"` // 0 means unlimited
	TrendFilter        string     `json:"trend_filter" yaml:"trend_filter"`
	AlignedProportions [3]float64 `json:"aligned_proportions" yaml:"aligned_proportions"`
	OpposedProportions [3]float64 `json:"opposed_proportions" yaml:"opposed_proportions"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DaysFile   string `json:"days_file,omitempty" yaml:"days_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON). Values not set
// in the file keep their defaults.
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

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Market.Symbol == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone: %w", err)
	}
	if c.Account.BaseCapital <= 0 {
		return fmt.Errorf("account.base_capital must be positive")
	}
	if c.Leverage.Standard <= 0 || c.Leverage.Defensive <= 0 {
		return fmt.Errorf("leverage tiers must be positive")
	}
	if c.Leverage.OpposingMultiplier <= 0 {
		return fmt.Errorf("leverage.opposing_multiplier must be positive")
	}

	start, err := market.ParseClock(c.Session.RangeStart)
	if err != nil {
		return fmt.Errorf("session.range_start: %w", err)
	}
	end, err := market.ParseClock(c.Session.RangeEnd)
	if err != nil {
		return fmt.Errorf("session.range_end: %w", err)
	}
	if start >= end {
		return fmt.Errorf("session.range_start must be before range_end")
	}
	if h := c.Session.TradingStartHour; h < 0 || h > 23 {
		return fmt.Errorf("session.trading_start_hour out of range")
	}
	if h := c.Session.EndOfDayHour; h < 0 || h > 23 {
		return fmt.Errorf("session.end_of_day_hour out of range")
	}
	if h := c.Session.MorningEndHour; h < 0 || h > 23 {
		return fmt.Errorf("session.morning_end_hour out of range")
	}

	if c.Strategy.MaxBreakouts <= 0 {
		return fmt.Errorf("strategy.max_breakouts must be positive")
	}
	if c.Strategy.MinRange < 0 {
		return fmt.Errorf("strategy.min_range must not be negative")
	}
	if c.Strategy.MaxRange != 0 && c.Strategy.MaxRange < c.Strategy.MinRange {
		return fmt.Errorf("strategy.max_range must not be below min_range")
	}
	switch sim.TrendFilter(c.Strategy.TrendFilter) {
	case sim.FilterNone, sim.FilterWith, sim.FilterAgainst:
	default:
		return fmt.Errorf("strategy.trend_filter must be empty, 'with' or 'against'")
	}
	for _, p := range c.Strategy.AlignedProportions {
		if p < 0 {
			return fmt.Errorf("strategy.aligned_proportions must not be negative")
		}
	}
	for _, p := range c.Strategy.OpposedProportions {
		if p < 0 {
			return fmt.Errorf("strategy.opposed_proportions must not be negative")
		}
	}

	switch c.Journal.Type {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be empty, 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.DaysFile == "") {
		return fmt.Errorf("journal trades_file and days_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Location returns the exchange time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Market.Timezone)
}

// MakeSession builds the candle classifier windows from the configuration.
func (c *Config) MakeSession() (*market.Session, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	start, err := market.ParseClock(c.Session.RangeStart)
	if err != nil {
		return nil, err
	}
	end, err := market.ParseClock(c.Session.RangeEnd)
	if err != nil {
		return nil, err
	}
	return &market.Session{
		Location:         loc,
		RangeStart:       start,
		RangeEnd:         end,
		TradingStartHour: c.Session.TradingStartHour,
		EndOfDayHour:     c.Session.EndOfDayHour,
	}, nil
}

// Policy builds the risk sizing policy from the configuration.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		BaseCapital:        c.Account.BaseCapital,
		StandardLeverage:   c.Leverage.Standard,
		DefensiveLeverage:  c.Leverage.Defensive,
		OpposingMultiplier: c.Leverage.OpposingMultiplier,
		Adaptive:           c.Leverage.Adaptive,
		AlignedProportions: c.Strategy.AlignedProportions,
		OpposedProportions: c.Strategy.OpposedProportions,
	}
}

// Settings builds the day-simulator settings from the configuration.
func (c *Config) Settings() (sim.Settings, error) {
	loc, err := c.Location()
	if err != nil {
		return sim.Settings{}, err
	}
	return sim.Settings{
		Policy:         c.Policy(),
		TrendFilter:    sim.TrendFilter(c.Strategy.TrendFilter),
		MaxBreakouts:   c.Strategy.MaxBreakouts,
		EndOfDayHour:   c.Session.EndOfDayHour,
		MorningOnly:    c.Session.MorningOnly,
		MorningEndHour: c.Session.MorningEndHour,
		Location:       loc,
	}, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			Symbol:   "BTCUSDT",
			Interval: "5m",
			Timezone: "Asia/Kolkata",
		},
		Account: AccountConfig{
			BaseCapital: 1000,
		},
		Leverage: LeverageConfig{
			Standard:           10,
			Defensive:          5,
			OpposingMultiplier: 1.5,
		},
		Session: SessionConfig{
			RangeStart:       "05:30",
			RangeEnd:         "06:00",
			TradingStartHour: 6,
			EndOfDayHour:     5,
			MorningEndHour:   14,
		},
		Strategy: StrategyConfig{
			MaxBreakouts:       3,
			AlignedProportions: [3]float64{1, 0, 0},
			OpposedProportions: [3]float64{1, 0, 0},
		},
	}
}
