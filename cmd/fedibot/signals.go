// ABOUTME: Stop-signal context for the poll loop
// ABOUTME: The first signal requests a clean stop; later ones get the default behaviour

package main

import (
	"context"
	"os"
	"os/signal"
)

var notifyContext = signal.NotifyContext

// notifyOnce returns a context cancelled by the first of sigs. Signal
// handling is released as soon as the context is done, so a second signal
// terminates the process even while a handler is still running.
func notifyOnce(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := notifyContext(parent, sigs...)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}
