package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxsession/market"
)

// Config represents the complete session configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Session  SessionConfig  `json:"session" yaml:"session"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// AccountConfig contains paper-account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// StrategyConfig contains the moving-average strategy parameters
type StrategyConfig struct {
	Instrument   string  `json:"instrument" yaml:"instrument"`
	Window       int     `json:"window" yaml:"window"`
	PositionSize float64 `json:"position_size" yaml:"position_size"`
}

// SessionConfig contains trading-session parameters
type SessionConfig struct {
	Duration     string `json:"duration" yaml:"duration"`           // e.g. "5m"
	PollInterval string `json:"poll_interval" yaml:"poll_interval"` // e.g. "1s"
	ResultsDir   string `json:"results_dir,omitempty" yaml:"results_dir,omitempty"`
}

// ParseDuration converts the session duration string to time.Duration
func (s SessionConfig) ParseDuration() (time.Duration, error) {
	return time.ParseDuration(s.Duration)
}

// ParsePollInterval converts the poll interval string to time.Duration
func (s SessionConfig) ParsePollInterval() (time.Duration, error) {
	return time.ParseDuration(s.PollInterval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging and metrics parameters
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Strategy.Instrument == "" {
		return fmt.Errorf("strategy.instrument is required")
	}
	if _, ok := market.Instruments[c.Strategy.Instrument]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Strategy.Instrument)
	}
	if c.Strategy.Window < 2 {
		return fmt.Errorf("strategy.window must be at least 2")
	}
	if c.Strategy.PositionSize <= 0 {
		return fmt.Errorf("strategy.position_size must be positive")
	}
	if d, err := c.Session.ParseDuration(); err != nil || d <= 0 {
		return fmt.Errorf("session.duration must be a positive duration")
	}
	if d, err := c.Session.ParsePollInterval(); err != nil || d <= 0 {
		return fmt.Errorf("session.poll_interval must be a positive duration")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults, mirroring the
// classic 5-minute EUR/USD demo session.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  10000,
		},
		Strategy: StrategyConfig{
			Instrument:   "EUR_USD",
			Window:       20,
			PositionSize: 1000,
		},
		Session: SessionConfig{
			Duration:     "5m",
			PollInterval: "1s",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
