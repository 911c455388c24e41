package extension

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/store/memory"
	"github.com/xraph/fareledger/types"
)

const owner = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

var errMigrate = errors.New("migrate called")

type migrateFails struct {
	*memory.Store
}

func (migrateFails) Migrate(context.Context) error { return errMigrate }

func quiet() Option {
	return WithLedgerOption(fareledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := mergeWithDefaults(Config{})
	if cfg.MinimumDeposit != "0.01" || cfg.StaffWindow != 24*time.Hour || cfg.PluginTimeout != 5*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestMergeConfigurations(t *testing.T) {
	yaml := Config{MinimumDeposit: "0.02"}
	prog := Config{
		MinimumDeposit: "0.5",
		StaffWindow:    time.Hour,
		DisableMigrate: true,
		DeployOwner:    owner,
	}

	got := mergeConfigurations(yaml, prog)
	if got.MinimumDeposit != "0.02" {
		t.Errorf("MinimumDeposit = %q, file value should win", got.MinimumDeposit)
	}
	if got.StaffWindow != time.Hour {
		t.Errorf("StaffWindow = %v, programmatic value should fill the gap", got.StaffWindow)
	}
	if !got.DisableMigrate {
		t.Error("DisableMigrate should be carried over")
	}
	if got.DeployOwner != owner {
		t.Errorf("DeployOwner = %q", got.DeployOwner)
	}
	if got.PluginTimeout != 5*time.Second {
		t.Errorf("PluginTimeout = %v, want default", got.PluginTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"bad deposit", Config{MinimumDeposit: "ten"}, true},
		{"negative window", Config{MinimumDeposit: "0.01", StaffWindow: -time.Second}, true},
		{"bad owner", Config{MinimumDeposit: "0.01", DeployOwner: "0x1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStartDeploysConfiguredOwner(t *testing.T) {
	e := New(
		WithStore(memory.New()),
		WithConfig(mergeWithDefaults(Config{MinimumDeposit: "0.05"})),
		WithDeployOwner(owner),
		quiet(),
	)
	if err := e.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	ctx := context.Background()
	if err := e.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.engine.Stop() //nolint:errcheck // test cleanup

	got, err := e.Engine().Owner()
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got.String() != owner {
		t.Fatalf("Owner = %s, want %s", got, owner)
	}
	minDeposit, err := e.Engine().MinimumDeposit()
	if err != nil {
		t.Fatalf("MinimumDeposit: %v", err)
	}
	if !minDeposit.Equal(types.MustParseMoney("0.05", "eth")) {
		t.Fatalf("MinimumDeposit = %v", minDeposit)
	}
	if err := e.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestDisableMigrate(t *testing.T) {
	s := migrateFails{memory.New()}

	e := New(WithStore(s), WithConfig(DefaultConfig()), quiet())
	if err := e.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := e.start(context.Background()); !errors.Is(err, errMigrate) {
		t.Fatalf("start = %v, want migration error", err)
	}

	e = New(WithStore(migrateFails{memory.New()}), WithConfig(DefaultConfig()), WithDisableMigrate(), quiet())
	if err := e.init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := e.start(context.Background()); err != nil {
		t.Fatalf("start with migrations disabled: %v", err)
	}
	_ = e.engine.Stop()
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	e := New(WithConfig(Config{MinimumDeposit: "lots"}))
	if err := e.init(); err == nil {
		t.Fatal("expected config error")
	}
}
