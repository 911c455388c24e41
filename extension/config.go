package extension

import (
	"errors"
	"fmt"
	"time"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
)

// Config holds the FareLedger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.fareledger" or "fareledger" keys).
type Config struct {
	// DisableMigrate skips store migrations on start. The journal is still
	// replayed.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// MinimumDeposit is the smallest accepted wallet top-up in ether
	// (default: "0.01").
	MinimumDeposit string `json:"minimum_deposit" mapstructure:"minimum_deposit" yaml:"minimum_deposit"`

	// StaffWindow is the minimum gap between two attendance entries from the
	// same staff member (default: 24h).
	StaffWindow time.Duration `json:"staff_window" mapstructure:"staff_window" yaml:"staff_window"`

	// PluginTimeout bounds each plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// DeployOwner, when set, deploys the ledger on start with this owner if
	// the journal holds no deployment yet.
	DeployOwner string `json:"deploy_owner" mapstructure:"deploy_owner" yaml:"deploy_owner"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinimumDeposit: "0.01",
		StaffWindow:    fareledger.DefaultStaffWindow,
		PluginTimeout:  5 * time.Second,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := fareledger.ParseMoney(c.MinimumDeposit, "eth"); err != nil {
		errs = append(errs, fmt.Errorf("minimum_deposit: %w", err))
	}
	if c.StaffWindow < 0 {
		errs = append(errs, errors.New("staff_window: must not be negative"))
	}
	if c.PluginTimeout < 0 {
		errs = append(errs, errors.New("plugin_timeout: must not be negative"))
	}
	if c.DeployOwner != "" {
		if _, err := account.ParseAddress(c.DeployOwner); err != nil {
			errs = append(errs, fmt.Errorf("deploy_owner: %w", err))
		}
	}
	return errors.Join(errs...)
}
