package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/trip"
)

type tripCounter struct {
	mu    sync.Mutex
	trips []string
}

func (p *tripCounter) Name() string { return "trip-counter" }

func (p *tripCounter) OnTripStarted(_ context.Context, rec *trip.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trips = append(p.trips, rec.TripCode)
	return nil
}

type rejectionSink struct {
	reasons []string
}

func (p *rejectionSink) Name() string { return "rejection-sink" }

func (p *rejectionSink) OnRejected(_ context.Context, _ string, _ account.Address, reason string, _ error) error {
	p.reasons = append(p.reasons, reason)
	return errors.New("sink full")
}

type slowPlugin struct{}

func (slowPlugin) Name() string { return "slow" }

func (slowPlugin) OnShutdown(context.Context) error {
	time.Sleep(200 * time.Millisecond)
	return nil
}

func quietRegistry() *Registry {
	return NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterCachesHooks(t *testing.T) {
	r := quietRegistry()
	counter := &tripCounter{}
	sink := &rejectionSink{}

	if err := r.Register(counter); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(sink); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&tripCounter{}); err == nil {
		t.Error("expected duplicate registration error")
	}

	if r.Count() != 2 {
		t.Errorf("Count: got %d", r.Count())
	}
	if r.Get("trip-counter") != counter {
		t.Error("Get returned wrong plugin")
	}
	if r.Get("missing") != nil {
		t.Error("Get of unknown plugin should be nil")
	}
	if len(r.onTripStarted) != 1 || len(r.onRejected) != 1 || len(r.onWithdrawal) != 0 {
		t.Errorf("hook cache: trips=%d rejected=%d withdrawal=%d",
			len(r.onTripStarted), len(r.onRejected), len(r.onWithdrawal))
	}

	got := implementedInterfaces(counter)
	if len(got) != 1 || got[0] != "OnTripStarted" {
		t.Errorf("implementedInterfaces: got %v", got)
	}
}

func TestEmitDispatchesAndSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	r := quietRegistry()
	counter := &tripCounter{}
	sink := &rejectionSink{}
	_ = r.Register(counter)
	_ = r.Register(sink)

	r.EmitTripStarted(ctx, &trip.Record{TripCode: "LAGIKJ"})
	r.EmitTripStarted(ctx, &trip.Record{TripCode: "APPLAG"})
	r.EmitRejected(ctx, "start_trip", account.Zero, "FareLedger__InvalidTripCode", errors.New("bad code"))

	if len(counter.trips) != 2 || counter.trips[1] != "APPLAG" {
		t.Errorf("trips: got %v", counter.trips)
	}
	if len(sink.reasons) != 1 {
		t.Errorf("reasons: got %v", sink.reasons)
	}
}

func TestCallWithTimeout(t *testing.T) {
	r := quietRegistry().WithTimeout(20 * time.Millisecond)
	_ = r.Register(slowPlugin{})

	start := time.Now()
	err := r.callWithTimeout(context.Background(), "slow", func() error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 150*time.Millisecond {
		t.Error("timeout did not bound the call")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.callWithTimeout(ctx, "slow", func() error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx: got %v", err)
	}
}
