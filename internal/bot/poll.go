// ABOUTME: Poll loop: fetch mentions, dispatch the batch, clear the queue, sleep, repeat
// ABOUTME: Stops at cycle boundaries on cancellation; fetch/clear failures back off and retry

package bot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
	"github.com/mauromedda/fedibot-go/internal/log"
)

// Run polls for mentions until ctx is cancelled. Cancellation is observed
// between cycles and while waiting on the transport or sleeping; handlers
// already dispatched always run to completion and their batch is cleared.
func (b *Bot) Run(ctx context.Context) {
	log.Info("logged in as @%s", b.me.Acct)
	defer b.setState(StateStopped)

	failures := 0
	for {
		b.setState(StateIdle)
		if ctx.Err() != nil {
			return
		}

		wait := b.pollInterval
		if err := b.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			wait = b.backoff(failures)
			log.Warn("poll cycle failed (%d in a row), retrying in %s: %v", failures, wait, err)
		} else {
			failures = 0
		}

		b.setState(StateSleeping)
		if err := sleepWithContext(ctx, wait); err != nil {
			return
		}
	}
}

// cycle runs one fetch, dispatch and clear pass.
func (b *Bot) cycle(ctx context.Context) error {
	b.setState(StateFetching)
	batch, err := b.transport.MentionNotifications(ctx)
	if err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	// Once dispatched, the batch is finished and acknowledged even if a stop
	// is requested meanwhile.
	work := context.WithoutCancel(ctx)

	b.setState(StateDispatching)
	b.dispatchBatch(work, batch)

	b.setState(StateClearing)
	if err := b.transport.ClearNotifications(work); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	log.Debug("processed %d notification(s)", len(batch))
	return nil
}

func (b *Bot) dispatchBatch(ctx context.Context, batch []fediverse.Notification) {
	if b.concurrency <= 1 {
		for i := range batch {
			b.Dispatch(ctx, &batch[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i := range batch {
		n := &batch[i]
		g.Go(func() error {
			b.Dispatch(ctx, n)
			return nil
		})
	}
	_ = g.Wait()
}

// backoff doubles the poll interval per consecutive failure up to maxBackoff.
func (b *Bot) backoff(failures int) time.Duration {
	d := b.pollInterval
	for i := 0; i < failures && d < b.maxBackoff; i++ {
		d *= 2
	}
	return min(d, b.maxBackoff)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
