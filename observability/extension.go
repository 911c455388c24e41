// Package observability provides a metrics plugin for the fare ledger that
// records lifecycle event counts through an injected MetricFactory.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/plugin"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin          = (*MetricsExtension)(nil)
	_ plugin.OnInit          = (*MetricsExtension)(nil)
	_ plugin.OnDeployed      = (*MetricsExtension)(nil)
	_ plugin.OnWalletFunded  = (*MetricsExtension)(nil)
	_ plugin.OnTripStarted   = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawal    = (*MetricsExtension)(nil)
	_ plugin.OnStaffRecorded = (*MetricsExtension)(nil)
	_ plugin.OnRejected      = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger lifecycle metrics.
// Register it as a plugin to track fare activity. Amount histograms observe
// the smallest unit (gwei for ether).
type MetricsExtension struct {
	factory MetricFactory

	Started  Counter
	Deployed Counter

	// Wallet metrics
	WalletFunded  Counter
	DepositAmount Histogram

	// Trip metrics
	TripsStarted Counter
	FareAmount   Histogram

	// Withdrawal metrics
	Withdrawals      Counter
	WithdrawalAmount Histogram

	// Staff metrics
	StaffRecorded Counter

	// Rejections, one counter per reason plus a total
	Rejected Counter

	mu         sync.Mutex
	rejectedBy map[string]Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		Started:  factory.Counter("fareledger.started"),
		Deployed: factory.Counter("fareledger.deployed"),

		WalletFunded:  factory.Counter("fareledger.wallet.funded"),
		DepositAmount: factory.Histogram("fareledger.wallet.deposit_amount"),

		TripsStarted: factory.Counter("fareledger.trip.started"),
		FareAmount:   factory.Histogram("fareledger.trip.fare_amount"),

		Withdrawals:      factory.Counter("fareledger.withdrawal.completed"),
		WithdrawalAmount: factory.Histogram("fareledger.withdrawal.amount"),

		StaffRecorded: factory.Counter("fareledger.staff.recorded"),

		Rejected:   factory.Counter("fareledger.rejected"),
		rejectedBy: make(map[string]Counter),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	m.Started.Inc()
	return nil
}

// OnDeployed implements plugin.OnDeployed.
func (m *MetricsExtension) OnDeployed(_ context.Context, _ id.LedgerID, _ account.Address, _ time.Time) error {
	m.Deployed.Inc()
	return nil
}

// OnWalletFunded implements plugin.OnWalletFunded.
func (m *MetricsExtension) OnWalletFunded(_ context.Context, _ *passenger.Account, amount types.Money) error {
	m.WalletFunded.Inc()
	m.DepositAmount.Observe(float64(amount.Amount))
	return nil
}

// OnTripStarted implements plugin.OnTripStarted.
func (m *MetricsExtension) OnTripStarted(_ context.Context, rec *trip.Record) error {
	m.TripsStarted.Inc()
	m.FareAmount.Observe(float64(rec.Price.Amount))
	return nil
}

// OnWithdrawal implements plugin.OnWithdrawal.
func (m *MetricsExtension) OnWithdrawal(_ context.Context, w *withdrawal.Withdrawal) error {
	m.Withdrawals.Inc()
	m.WithdrawalAmount.Observe(float64(w.Amount.Amount))
	return nil
}

// OnStaffRecorded implements plugin.OnStaffRecorded.
func (m *MetricsExtension) OnStaffRecorded(_ context.Context, _ *staff.Record) error {
	m.StaffRecorded.Inc()
	return nil
}

// OnRejected implements plugin.OnRejected.
func (m *MetricsExtension) OnRejected(_ context.Context, _ string, _ account.Address, reason string, _ error) error {
	m.Rejected.Inc()
	m.reasonCounter(reason).Inc()
	return nil
}

func (m *MetricsExtension) reasonCounter(reason string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rejectedBy[reason]
	if !ok {
		c = m.factory.Counter("fareledger.rejected." + reason)
		m.rejectedBy[reason] = c
	}
	return c
}
