package fareledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/plugin"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/store"
	"github.com/xraph/fareledger/types"
)

// Defaults written into the genesis transaction unless overridden.
var (
	DefaultMinimumDeposit = types.MustParseMoney("0.01", "eth")
	DefaultStaffWindow    = 24 * time.Hour
)

// replayPageSize is how many transactions Start reads per store call.
const replayPageSize = 500

// Ledger is the fare ledger engine. Writes are serialized; reads run
// concurrently with each other.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	now     func() time.Time

	// Genesis configuration, only read by Deploy.
	schedule       schedule.Schedule
	minimumDeposit types.Money
	staffWindow    time.Duration

	mu      sync.RWMutex
	st      *state
	started bool
}

// Deployment describes the genesis of a ledger.
type Deployment struct {
	LedgerID      id.LedgerID      `json:"ledger_id"`
	TransactionID id.TransactionID `json:"transaction_id"`
	Owner         account.Address  `json:"owner"`
	Seq           uint64           `json:"seq"`
	DeployedAt    time.Time        `json:"deployed_at"`
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:          s,
		plugins:        plugin.NewRegistry(),
		logger:         slog.Default(),
		now:            time.Now,
		schedule:       schedule.Default(),
		minimumDeposit: DefaultMinimumDeposit,
		staffWindow:    DefaultStaffWindow,
		st:             newState(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.plugins.WithTimeout(d)
	}
}

// WithSchedule sets the trip schedule written at deploy time.
func WithSchedule(s schedule.Schedule) Option {
	return func(l *Ledger) {
		l.schedule = s
	}
}

// WithMinimumDeposit sets the smallest accepted wallet funding.
func WithMinimumDeposit(m types.Money) Option {
	return func(l *Ledger) {
		l.minimumDeposit = m
	}
}

// WithStaffWindow sets how long a staff member must wait between records.
func WithStaffWindow(d time.Duration) Option {
	return func(l *Ledger) {
		l.staffWindow = d
	}
}

// WithClock replaces the time source. Timestamps are stored in UTC.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Start migrates the store and rebuilds state by replaying the journal.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	l.mu.Lock()
	st := newState()
	if err := l.replay(ctx, st); err != nil {
		l.mu.Unlock()
		return err
	}
	l.st = st
	l.started = true
	seq := st.seq
	deployed := st.deployment != nil
	l.mu.Unlock()

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("fareledger started",
		"seq", seq,
		"deployed", deployed,
		"plugins", l.plugins.Count(),
	)

	return nil
}

// Stop shuts down the Ledger and closes its store.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	l.started = false
	l.mu.Unlock()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// replay folds every transaction after st.seq into st.
func (l *Ledger) replay(ctx context.Context, st *state) error {
	for {
		page, err := l.store.ListTransactions(ctx, journal.ListOpts{AfterSeq: st.seq, Limit: replayPageSize})
		if err != nil {
			return fmt.Errorf("fareledger: replay after seq %d: %w", st.seq, err)
		}
		for _, t := range page {
			if err := st.apply(t); err != nil {
				if !errors.Is(err, ErrCorruptJournal) {
					err = fmt.Errorf("%w: seq %d: %w", ErrCorruptJournal, t.Seq, err)
				}
				return err
			}
		}
		if len(page) < replayPageSize {
			return nil
		}
	}
}

// ──────────────────────────────────────────────────
// Deployment
// ──────────────────────────────────────────────────

// Deploy writes the genesis transaction: owner, trip schedule, minimum
// deposit and staff window. It can succeed once per journal.
func (l *Ledger) Deploy(ctx context.Context, owner account.Address) (*Deployment, error) {
	t := &journal.Transaction{
		Kind:     journal.KindDeploy,
		Caller:   owner,
		RecordID: id.NewLedgerID(),
		Genesis: &journal.Genesis{
			Owner:          owner,
			Fares:          l.schedule.Fares(),
			MinimumDeposit: l.minimumDeposit,
			StaffWindow:    l.staffWindow,
		},
	}

	l.mu.Lock()
	if err := l.commit(ctx, t); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	d := *l.st.deployment
	l.mu.Unlock()

	l.logger.Info("fareledger deployed",
		"ledger_id", d.LedgerID.String(),
		"owner", d.Owner.String(),
		"fares", l.schedule.Len(),
		"minimum_deposit", l.minimumDeposit.String(),
	)
	l.plugins.EmitDeployed(ctx, d.LedgerID, d.Owner, d.DeployedAt)

	return &d, nil
}

// commit folds in any transactions other writers appended, stamps t,
// validates it against state, appends it to the journal and folds it in. It must be called with l.mu held. On any error the state is
// unchanged.
func (l *Ledger) commit(ctx context.Context, t *journal.Transaction) error {
	if !l.started {
		return ErrStoreNotReady
	}
	if t.Caller.IsZero() {
		return ValidationError{Field: "caller", Message: "must not be the zero address"}
	}

	if err := l.sync(ctx); err != nil {
		return err
	}

	l.st.fill(t)
	t.ID = id.NewTransactionID()
	t.Seq = l.st.seq + 1
	t.Timestamp = l.now().UTC()

	apply, err := l.st.prepare(t)
	if err != nil {
		return err
	}

	if err := l.store.AppendTransaction(ctx, t); err != nil {
		if errors.Is(err, ErrJournalConflict) {
			l.catchUp(ctx)
		}
		return fmt.Errorf("fareledger: append %s: %w", t.Kind, err)
	}

	apply()
	return nil
}

// sync brings state up to the journal head so that rejections and derived
// amounts never come from a stale view. It must be called with l.mu held.
func (l *Ledger) sync(ctx context.Context) error {
	head, err := l.store.LastSequence(ctx)
	if err != nil {
		return fmt.Errorf("fareledger: journal head: %w", err)
	}
	if head <= l.st.seq {
		return nil
	}
	before := l.st.seq
	if err := l.replay(ctx, l.st); err != nil {
		return err
	}
	l.logger.Debug("fareledger: folded in transactions from another writer",
		"from_seq", before,
		"to_seq", l.st.seq,
	)
	return nil
}

// Refresh folds in transactions other writers appended since the last
// operation, so that reads reflect the journal head.
func (l *Ledger) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrStoreNotReady
	}
	return l.sync(ctx)
}

// catchUp folds in transactions another writer appended. It must be called
// with l.mu held.
func (l *Ledger) catchUp(ctx context.Context) {
	before := l.st.seq
	if err := l.replay(ctx, l.st); err != nil {
		l.logger.Error("fareledger: catch up after journal conflict failed",
			"seq", before,
			"error", err,
		)
		return
	}
	l.logger.Warn("fareledger: journal advanced by another writer",
		"from_seq", before,
		"to_seq", l.st.seq,
	)
}
