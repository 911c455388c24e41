package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// DefaultTimeout bounds every hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit          []OnInit
	onShutdown      []OnShutdown
	onDeployed      []OnDeployed
	onWalletFunded  []OnWalletFunded
	onTripStarted   []OnTripStarted
	onWithdrawal    []OnWithdrawal
	onStaffRecorded []OnStaffRecorded
	onRejected      []OnRejected
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnDeployed); ok {
		r.onDeployed = append(r.onDeployed, v)
	}
	if v, ok := p.(OnWalletFunded); ok {
		r.onWalletFunded = append(r.onWalletFunded, v)
	}
	if v, ok := p.(OnTripStarted); ok {
		r.onTripStarted = append(r.onTripStarted, v)
	}
	if v, ok := p.(OnWithdrawal); ok {
		r.onWithdrawal = append(r.onWithdrawal, v)
	}
	if v, ok := p.(OnStaffRecorded); ok {
		r.onStaffRecorded = append(r.onStaffRecorded, v)
	}
	if v, ok := p.(OnRejected); ok {
		r.onRejected = append(r.onRejected, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeOf((*OnInit)(nil)).Elem()},
	{"OnShutdown", reflect.TypeOf((*OnShutdown)(nil)).Elem()},
	{"OnDeployed", reflect.TypeOf((*OnDeployed)(nil)).Elem()},
	{"OnWalletFunded", reflect.TypeOf((*OnWalletFunded)(nil)).Elem()},
	{"OnTripStarted", reflect.TypeOf((*OnTripStarted)(nil)).Elem()},
	{"OnWithdrawal", reflect.TypeOf((*OnWithdrawal)(nil)).Elem()},
	{"OnStaffRecorded", reflect.TypeOf((*OnStaffRecorded)(nil)).Elem()},
	{"OnRejected", reflect.TypeOf((*OnRejected)(nil)).Elem()},
}

// implementedInterfaces returns the hook names implemented by the plugin.
func implementedInterfaces(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnInit", p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnShutdown", p.Name(), func() error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitDeployed emits a deployment event.
func (r *Registry) EmitDeployed(ctx context.Context, ledgerID id.LedgerID, owner account.Address, at time.Time) {
	r.mu.RLock()
	plugins := r.onDeployed
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnDeployed", p.Name(), func() error {
			return p.OnDeployed(ctx, ledgerID, owner, at)
		})
	}
}

// EmitWalletFunded emits a wallet funded event.
func (r *Registry) EmitWalletFunded(ctx context.Context, acct *passenger.Account, amount types.Money) {
	r.mu.RLock()
	plugins := r.onWalletFunded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnWalletFunded", p.Name(), func() error {
			return p.OnWalletFunded(ctx, acct, amount)
		})
	}
}

// EmitTripStarted emits a trip started event.
func (r *Registry) EmitTripStarted(ctx context.Context, rec *trip.Record) {
	r.mu.RLock()
	plugins := r.onTripStarted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnTripStarted", p.Name(), func() error {
			return p.OnTripStarted(ctx, rec)
		})
	}
}

// EmitWithdrawal emits a withdrawal event.
func (r *Registry) EmitWithdrawal(ctx context.Context, w *withdrawal.Withdrawal) {
	r.mu.RLock()
	plugins := r.onWithdrawal
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnWithdrawal", p.Name(), func() error {
			return p.OnWithdrawal(ctx, w)
		})
	}
}

// EmitStaffRecorded emits a staff recorded event.
func (r *Registry) EmitStaffRecorded(ctx context.Context, rec *staff.Record) {
	r.mu.RLock()
	plugins := r.onStaffRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnStaffRecorded", p.Name(), func() error {
			return p.OnStaffRecorded(ctx, rec)
		})
	}
}

// EmitRejected emits a rejection event.
func (r *Registry) EmitRejected(ctx context.Context, op string, caller account.Address, reason string, err error) {
	r.mu.RLock()
	plugins := r.onRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnRejected", p.Name(), func() error {
			return p.OnRejected(ctx, op, caller, reason, err)
		})
	}
}

func (r *Registry) dispatch(ctx context.Context, hook, pluginName string, fn func() error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", pluginName,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
