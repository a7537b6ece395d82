package widget

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

func TestRunnerReceivesUpdates(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "fast", 20*time.Millisecond, WithText("ping")))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates, WithLogger(quietLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := runner.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer runner.Stop()

	select {
	case u := <-updates:
		if u.Source != "fast" {
			t.Errorf("Source = %q, want %q", u.Source, "fast")
		}
		if len(u.Fragments) != 1 || u.Fragments[0].Text != "ping" {
			t.Errorf("Fragments = %+v", u.Fragments)
		}
		if u.Seq != 1 {
			t.Errorf("Seq = %d, want 1", u.Seq)
		}
		if u.Error != nil {
			t.Errorf("unexpected error: %v", u.Error)
		}
		if u.Timestamp.IsZero() {
			t.Error("Timestamp should not be zero")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for update")
	}
}

func TestRunnerGracefulDegradation(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "failing", 20*time.Millisecond, WithError(errors.New("no battery"))))
	_ = r.Register(mustWidget(t, "working", 20*time.Millisecond, WithText("ok")))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates, WithLogger(quietLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = runner.Start(ctx)
	defer runner.Stop()

	var failing, working int
	for failing < 2 || working < 2 {
		select {
		case u := <-updates:
			switch u.Source {
			case "failing":
				failing++
				if u.Error == nil {
					t.Error("failing widget should report error")
				}
			case "working":
				working++
				if u.Error != nil {
					t.Errorf("working widget had error: %v", u.Error)
				}
			}
		case <-ctx.Done():
			t.Fatalf("timed out; failing=%d working=%d", failing, working)
		}
	}
}

func TestRunnerNoImmediateTick(t *testing.T) {
	fc := clockwork.NewFakeClock()
	w, _ := New(NewMockSampler("lazy", WithText("x")), time.Minute, WithClock(fc))
	r := NewRegistry()
	_ = r.Register(w)

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates, WithLogger(quietLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = runner.Start(ctx)
	defer runner.Stop()

	select {
	case <-updates:
		t.Fatal("runner produced an update before the first interval")
	case <-time.After(50 * time.Millisecond):
	}

	fc.BlockUntilContext(ctx, 1)
	fc.Advance(time.Minute)

	select {
	case u := <-updates:
		if u.Seq != 1 {
			t.Errorf("Seq = %d, want 1", u.Seq)
		}
	case <-ctx.Done():
		t.Fatal("no update after first interval")
	}
}

func TestRunnerStopWaitsForGoroutines(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "tracked", 10*time.Millisecond,
		WithTickFunc(func(ctx context.Context) ([]text.Text, error) {
			calls.Add(1)
			return []text.Text{{Text: "x"}}, nil
		}),
	))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates, WithLogger(quietLogger()))

	_ = runner.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	runner.Stop()

	before := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if after := calls.Load(); after != before {
		t.Errorf("ticks continued after Stop: before=%d, after=%d", before, after)
	}
}

func TestRunnerStopIdempotent(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "x", 10*time.Millisecond, WithText("x")))

	runner := NewRunner(r, make(chan Update, DefaultUpdateBufferSize), WithLogger(quietLogger()))
	_ = runner.Start(context.Background())

	runner.Stop()
	runner.Stop()
	runner.Stop()
}

func TestRunnerStartTwice(t *testing.T) {
	r := NewRegistry()
	runner := NewRunner(r, make(chan Update, 1))
	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start with empty registry should not error: %v", err)
	}
	defer runner.Stop()
	if err := runner.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
}

func TestRunnerStartFailsForStreamedWidget(t *testing.T) {
	w := mustWidget(t, "used", time.Hour, WithText("x"))
	st, _ := w.Stream(context.Background())
	defer st.Stop()

	r := NewRegistry()
	_ = r.Register(w)
	runner := NewRunner(r, make(chan Update, 1))
	if err := runner.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start err = %v, want ErrAlreadyStarted", err)
	}
}

func TestRunnerRunOnce(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "manual", time.Hour, WithText("triggered")))
	runner := NewRunner(r, make(chan Update, 1))

	frags, err := runner.RunOnce(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if len(frags) != 1 || frags[0].Text != "triggered" {
		t.Errorf("fragments = %+v", frags)
	}

	s, _ := r.Status("manual")
	if s.RunCount != 1 {
		t.Errorf("RunCount = %d, want 1", s.RunCount)
	}
	if s.LastRun.IsZero() {
		t.Error("LastRun should be set after RunOnce")
	}
}

func TestRunnerRunOnceNotFound(t *testing.T) {
	runner := NewRunner(NewRegistry(), make(chan Update, 1))
	if _, err := runner.RunOnce(context.Background(), "ghost"); err == nil {
		t.Fatal("RunOnce should error for unregistered widget")
	}
}

func TestRunnerHealth(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(mustWidget(t, "good", time.Hour, WithText("ok")))
	_ = r.Register(mustWidget(t, "bad", time.Hour, WithError(errors.New("fail"))))
	runner := NewRunner(r, make(chan Update, 1))

	health := runner.Health()
	if !health["good"] || !health["bad"] {
		t.Errorf("initial health should all be true: %v", health)
	}

	_, err := runner.RunOnce(context.Background(), "bad")
	if err == nil {
		t.Fatal("RunOnce on failing widget should return its error")
	}

	health = runner.Health()
	if !health["good"] {
		t.Error("good should still be healthy")
	}
	if health["bad"] {
		t.Error("bad should be unhealthy after error")
	}
}
