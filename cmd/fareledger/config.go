package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xraph/fareledger"
)

// Config is the fareledger command configuration, read from YAML and then
// overridden from the environment.
type Config struct {
	// Network names the chain the ledger is deployed for.
	Network string `yaml:"network"`

	// DevNetworks lists networks that never trigger explorer verification.
	DevNetworks []string `yaml:"dev_networks"`

	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Explorer ExplorerConfig `yaml:"explorer"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// StoreConfig selects the journal backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, mysql
	DSN    string `yaml:"dsn"`
}

// LedgerConfig holds the deployment parameters.
type LedgerConfig struct {
	MinimumDeposit string        `yaml:"minimum_deposit"`
	StaffWindow    time.Duration `yaml:"staff_window"`
	PluginTimeout  time.Duration `yaml:"plugin_timeout"`
	Audit          bool          `yaml:"audit"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig configures caller tokens.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// ExplorerConfig configures deployment verification on a block explorer.
type ExplorerConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Network:     "localhost",
		DevNetworks: []string{"hardhat", "localhost"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Ledger: LedgerConfig{
			MinimumDeposit: "0.01",
			StaffWindow:    fareledger.DefaultStaffWindow,
			PluginTimeout:  5 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Explorer: ExplorerConfig{
			URL:     "https://api.etherscan.io/api",
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides replaces fields with non-empty environment values.
func (c *Config) applyEnvOverrides() {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str("FARELEDGER_NETWORK", &c.Network)
	str("FARELEDGER_LOG_LEVEL", &c.Log.Level)
	str("FARELEDGER_LOG_FORMAT", &c.Log.Format)
	str("FARELEDGER_STORE_DRIVER", &c.Store.Driver)
	str("FARELEDGER_STORE_DSN", &c.Store.DSN)
	str("FARELEDGER_MINIMUM_DEPOSIT", &c.Ledger.MinimumDeposit)
	str("FARELEDGER_HTTP_ADDR", &c.HTTP.Addr)
	str("FARELEDGER_AUTH_SECRET", &c.Auth.Secret)
	str("FARELEDGER_EXPLORER_URL", &c.Explorer.URL)
	str("FARELEDGER_EXPLORER_API_KEY", &c.Explorer.APIKey)

	// The conventional variable wins over the namespaced one.
	str("ETHERSCAN_API_KEY", &c.Explorer.APIKey)
}

// IsDevNetwork reports whether name is a development network.
func (c *Config) IsDevNetwork(name string) bool {
	return slices.Contains(c.DevNetworks, strings.ToLower(name))
}

// ShouldVerify reports whether a deployment on network should be submitted
// to the explorer.
func (c *Config) ShouldVerify(network string) bool {
	return !c.IsDevNetwork(network) && c.Explorer.APIKey != ""
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	switch c.Store.Driver {
	case "memory":
	case "mysql":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn: required for the mysql driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	if _, err := fareledger.ParseMoney(c.Ledger.MinimumDeposit, "eth"); err != nil {
		errs = append(errs, fmt.Errorf("ledger.minimum_deposit: %w", err))
	}
	if c.Ledger.StaffWindow < 0 {
		errs = append(errs, errors.New("ledger.staff_window: must not be negative"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr: required"))
	}
	if c.Explorer.URL == "" && c.Explorer.APIKey != "" {
		errs = append(errs, errors.New("explorer.url: required when an api key is set"))
	}

	return errors.Join(errs...)
}
