// Package config loads the marketd configuration from defaults, an optional
// TOML file, and MARKETD_ environment variables, in that priority order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage"
)

// Config is the complete marketd configuration.
type Config struct {
	Market   MarketConfig   `toml:"market" mapstructure:"market"`
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
}

// MarketConfig seeds the on-ledger fee configuration on first start. Later
// changes go through FeeConfigSet transactions, not the file.
type MarketConfig struct {
	Owner           string `toml:"owner" mapstructure:"owner"`
	FeeRecipient    string `toml:"fee_recipient" mapstructure:"fee_recipient"`
	ProtocolFeeBps  uint32 `toml:"protocol_fee_bps" mapstructure:"protocol_fee_bps"`
	MinIncrementBps uint32 `toml:"min_increment_bps" mapstructure:"min_increment_bps"`
}

// ServerConfig controls the RPC listener.
type ServerConfig struct {
	Bind string `toml:"bind" mapstructure:"bind"`
	Port int    `toml:"port" mapstructure:"port"`
}

// DatabaseConfig selects and tunes the storage backend.
type DatabaseConfig struct {
	Backend   string `toml:"backend" mapstructure:"backend"`
	Path      string `toml:"path" mapstructure:"path"`
	CacheSize int    `toml:"cache_size" mapstructure:"cache_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.protocol_fee_bps", 0)
	v.SetDefault("market.min_increment_bps", 0)
	v.SetDefault("server.bind", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.backend", storage.BackendMemory)
	v.SetDefault("database.path", "marketd.db")
	v.SetDefault("database.cache_size", 4096)
}

// Load reads the configuration. An empty path skips the file and uses
// defaults plus environment only; a named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("MARKETD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Market.ProtocolFeeBps > tx.MaxProtocolFeeBps {
		return fmt.Errorf("market.protocol_fee_bps %d exceeds cap %d", c.Market.ProtocolFeeBps, tx.MaxProtocolFeeBps)
	}
	if c.Market.MinIncrementBps > 10000 {
		return fmt.Errorf("market.min_increment_bps %d exceeds 100%%", c.Market.MinIncrementBps)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Database.Backend {
	case storage.BackendMemory:
	case storage.BackendPebble:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path required for the %s backend", storage.BackendPebble)
		}
	default:
		return fmt.Errorf("unknown database.backend %q", c.Database.Backend)
	}
	if c.Market.Owner != "" {
		if _, err := entry.DecodeAccountID(c.Market.Owner); err != nil {
			return fmt.Errorf("market.owner: %w", err)
		}
	}
	if c.Market.FeeRecipient != "" {
		if _, err := entry.DecodeAccountID(c.Market.FeeRecipient); err != nil {
			return fmt.Errorf("market.fee_recipient: %w", err)
		}
	}
	return nil
}

// FeeConfig builds the bootstrap fee configuration entry. Unset accounts
// come back zero, which leaves the market without an admin owner.
func (c *Config) FeeConfig() (*entry.FeeConfig, error) {
	cfg := &entry.FeeConfig{
		ProtocolFeeBps:  c.Market.ProtocolFeeBps,
		MinIncrementBps: c.Market.MinIncrementBps,
	}
	var err error
	if c.Market.Owner != "" {
		if cfg.Owner, err = entry.DecodeAccountID(c.Market.Owner); err != nil {
			return nil, err
		}
	}
	if c.Market.FeeRecipient != "" {
		if cfg.FeeRecipient, err = entry.DecodeAccountID(c.Market.FeeRecipient); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ListenAddr returns the server bind address in host:port form.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
