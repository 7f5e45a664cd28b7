// ABOUTME: Tests for the poll loop: batching, clearing, backoff and cooperative stop
// ABOUTME: Runs the loop with millisecond intervals against the fake transport

package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

// runUntil runs b until cond holds (or the test times out), then stops it
// and waits for Run to return.
func runUntil(t *testing.T, b *Bot, cond func() bool) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatal("condition not reached before deadline")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if got := b.State(); got != StateStopped {
		t.Errorf("State() = %s, want stopped", got)
	}
}

func TestRun_DispatchesAndClearsEachBatch(t *testing.T) {
	t.Parallel()

	f := newFake()
	f.fetch = func(n int) ([]fediverse.Notification, error) {
		switch n {
		case 0:
			return []fediverse.Notification{
				mention("1", "alice", "<p>@bot fail</p>"),
				mention("2", "alice", "<p>@bot ping</p>"),
				mention("3", "alice", "<p>hello @bot</p>"),
			}, nil
		case 1:
			return nil, errors.New("connection reset")
		case 2:
			return []fediverse.Notification{mention("4", "carol", "<p>@bot ping</p>")}, nil
		}
		return nil, nil
	}

	b := newTestBot(t, f, Options{PollInterval: time.Millisecond, MaxBackoff: 4 * time.Millisecond})
	var pings, fails atomic.Int32
	b.Command("ping", "", func(context.Context, *fediverse.Notification, []string) error {
		pings.Add(1)
		return nil
	})
	b.Command("fail", "", func(context.Context, *fediverse.Notification, []string) error {
		fails.Add(1)
		return errors.New("handler broke")
	})

	runUntil(t, b, func() bool {
		fetches, _ := f.counts()
		return fetches >= 5
	})

	if got := pings.Load(); got != 2 {
		t.Errorf("ping ran %d times, want 2", got)
	}
	if got := fails.Load(); got != 1 {
		t.Errorf("fail ran %d times, want 1", got)
	}
	if _, clears := f.counts(); clears != 2 {
		t.Errorf("cleared %d times, want once per non-empty batch (2)", clears)
	}
}

func TestRun_ClearsAfterWholeConcurrentBatch(t *testing.T) {
	t.Parallel()

	const batchSize = 20
	f := newFake()
	f.fetch = func(n int) ([]fediverse.Notification, error) {
		if n != 0 {
			return nil, nil
		}
		batch := make([]fediverse.Notification, batchSize)
		for i := range batch {
			batch[i] = mention(string(rune('a'+i)), "alice", "<p>@bot work</p>")
		}
		return batch, nil
	}

	b := newTestBot(t, f, Options{PollInterval: time.Millisecond, DispatchConcurrency: 4})
	var (
		running, peak, done atomic.Int32
		seenAtClear         atomic.Int32
	)
	b.Command("work", "", func(context.Context, *fediverse.Notification, []string) error {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		done.Add(1)
		return nil
	})
	f.onClear = func() { seenAtClear.Store(done.Load()) }

	runUntil(t, b, func() bool {
		_, clears := f.counts()
		return clears >= 1
	})

	if got := seenAtClear.Load(); got != batchSize {
		t.Errorf("clear saw %d finished handlers, want %d", got, batchSize)
	}
	if got := peak.Load(); got > 4 {
		t.Errorf("peak concurrency = %d, want <= 4", got)
	}
}

func TestRun_StopLetsHandlerFinish(t *testing.T) {
	t.Parallel()

	f := newFake()
	f.fetch = func(n int) ([]fediverse.Notification, error) {
		if n == 0 {
			return []fediverse.Notification{mention("1", "alice", "<p>@bot slow</p>")}, nil
		}
		return nil, nil
	}

	b := newTestBot(t, f, Options{PollInterval: time.Millisecond})
	started := make(chan struct{})
	release := make(chan struct{})
	var handlerErr error
	b.Command("slow", "", func(ctx context.Context, _ *fediverse.Notification, _ []string) error {
		close(started)
		<-release
		handlerErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		b.Run(ctx)
	}()

	<-started
	cancel()
	close(release)
	<-finished

	if handlerErr != nil {
		t.Errorf("handler context was cancelled: %v", handlerErr)
	}
	fetches, clears := f.counts()
	if clears != 1 {
		t.Errorf("cleared %d times, want 1", clears)
	}
	if fetches != 1 {
		t.Errorf("fetched %d times after stop, want 1", fetches)
	}
	if got := b.State(); got != StateStopped {
		t.Errorf("State() = %s, want stopped", got)
	}
}

func TestRun_StateTransitions(t *testing.T) {
	t.Parallel()

	f := newFake()
	f.fetch = func(n int) ([]fediverse.Notification, error) {
		if n == 0 {
			return []fediverse.Notification{mention("1", "alice", "<p>@bot help</p>")}, nil
		}
		return nil, nil
	}
	b := newTestBot(t, f, Options{PollInterval: time.Millisecond})

	var (
		mu     sync.Mutex
		states []State
	)
	b.Events().Subscribe(func(ev Event) {
		if ev.Kind != EventState {
			return
		}
		mu.Lock()
		states = append(states, ev.State)
		mu.Unlock()
	})

	runUntil(t, b, func() bool {
		fetches, _ := f.counts()
		return fetches >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	want := []State{StateIdle, StateFetching, StateDispatching, StateClearing, StateSleeping, StateIdle, StateFetching}
	if len(states) < len(want) {
		t.Fatalf("states = %v, want prefix %v", states, want)
	}
	for i, s := range want {
		if states[i] != s {
			t.Fatalf("states = %v, want prefix %v", states, want)
		}
	}
	if last := states[len(states)-1]; last != StateStopped {
		t.Errorf("last state = %s, want stopped", last)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	b := &Bot{pollInterval: time.Second, maxBackoff: 10 * time.Second}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for i, w := range want {
		if got := b.backoff(i + 1); got != w {
			t.Errorf("backoff(%d) = %s, want %s", i+1, got, w)
		}
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if got := StateDispatching.String(); got != "dispatching" {
		t.Errorf("String() = %q", got)
	}
	if got := State(42).String(); got != "State(42)" {
		t.Errorf("String() = %q", got)
	}
}
