// Package extension provides the Forge extension adapter for FareLedger.
//
// It implements the forge.Extension interface to integrate the fare ledger
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.fareledger" or
// "fareledger" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/store"
	"github.com/xraph/fareledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "fareledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Transit fare ledger: wallets, trips, withdrawals and staff attendance"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts FareLedger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *fareledger.Ledger
	store      store.Store
	ledgerOpts []fareledger.Option
}

// New creates a new FareLedger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *fareledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.init(); err != nil {
		return err
	}

	return vessel.Provide(fapp.Container(), func() (*fareledger.Ledger, error) {
		return e.engine, nil
	})
}

// init builds the engine from the resolved config.
func (e *Extension) init() error {
	if err := e.config.Validate(); err != nil {
		return fmt.Errorf("fareledger: invalid extension config: %w", err)
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts, err := e.buildLedgerOpts()
	if err != nil {
		return err
	}

	s := e.store
	if e.config.DisableMigrate {
		s = skipMigrate{s}
	}
	e.engine = fareledger.New(s, opts...)
	return nil
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if err := e.start(ctx); err != nil {
		return err
	}
	e.MarkStarted()
	return nil
}

func (e *Extension) start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("fareledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	if e.config.DeployOwner != "" && !e.engine.IsDeployed() {
		owner, err := account.ParseAddress(e.config.DeployOwner)
		if err != nil {
			return fmt.Errorf("fareledger: deploy owner: %w", err)
		}
		if _, err := e.engine.Deploy(ctx, owner); err != nil && !errors.Is(err, fareledger.ErrAlreadyDeployed) {
			return err
		}
	}
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("fareledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs fareledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() ([]fareledger.Option, error) {
	opts := make([]fareledger.Option, 0, len(e.ledgerOpts)+3)

	if e.config.MinimumDeposit != "" {
		minDeposit, err := fareledger.ParseMoney(e.config.MinimumDeposit, "eth")
		if err != nil {
			return nil, fmt.Errorf("fareledger: minimum deposit: %w", err)
		}
		opts = append(opts, fareledger.WithMinimumDeposit(minDeposit))
	}
	if e.config.StaffWindow > 0 {
		opts = append(opts, fareledger.WithStaffWindow(e.config.StaffWindow))
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, fareledger.WithPluginTimeout(e.config.PluginTimeout))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts, nil
}

// skipMigrate disables Migrate on a store the operator manages by hand.
type skipMigrate struct {
	store.Store
}

func (skipMigrate) Migrate(context.Context) error { return nil }

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("fareledger: configuration is required but not found in config files; " +
				"ensure 'extensions.fareledger' or 'fareledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("fareledger: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("minimum_deposit", e.config.MinimumDeposit),
		forge.F("staff_window", e.config.StaffWindow),
		forge.F("plugin_timeout", e.config.PluginTimeout),
		forge.F("deploy_owner", e.config.DeployOwner),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.fareledger", "fareledger"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("fareledger: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("fareledger: loaded config from file",
			forge.F("key", key),
		)
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.MinimumDeposit == "" {
		cfg.MinimumDeposit = defaults.MinimumDeposit
	}
	if cfg.StaffWindow == 0 {
		cfg.StaffWindow = defaults.StaffWindow
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	if yamlConfig.MinimumDeposit == "" {
		yamlConfig.MinimumDeposit = programmaticConfig.MinimumDeposit
	}
	if yamlConfig.DeployOwner == "" {
		yamlConfig.DeployOwner = programmaticConfig.DeployOwner
	}
	if yamlConfig.StaffWindow == 0 {
		yamlConfig.StaffWindow = programmaticConfig.StaffWindow
	}
	if yamlConfig.PluginTimeout == 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
