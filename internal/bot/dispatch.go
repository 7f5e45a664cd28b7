// ABOUTME: Turns one mention notification into at most one command invocation
// ABOUTME: Parse errors are replied to the sender; handler errors and panics are logged and contained

package bot

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/mauromedda/fedibot-go/internal/commands"
	"github.com/mauromedda/fedibot-go/internal/fediverse"
	"github.com/mauromedda/fedibot-go/internal/log"
	"github.com/mauromedda/fedibot-go/internal/parse"
	"github.com/mauromedda/fedibot-go/internal/richtext"
)

// Dispatch handles a single mention. The returned event, which is also
// published on the bus, says what happened. Dispatch never panics because
// of a handler.
func (b *Bot) Dispatch(ctx context.Context, n *fediverse.Notification) Event {
	ev := b.dispatch(ctx, n)
	b.events.Publish(ev)
	return ev
}

func (b *Bot) dispatch(ctx context.Context, n *fediverse.Notification) Event {
	ev := Event{Kind: EventIgnored}
	if n == nil || n.Status == nil {
		return ev
	}
	ev.NotificationID = n.ID

	inv, err := parse.Tokenize(richtext.HTMLToPlain(n.Status.Content), b.self)
	if err != nil {
		ev.Kind = EventParseError
		ev.Err = err
		if !errors.Is(err, parse.ErrArgumentParsing) {
			log.Error("tokenizing notification %s: %v", n.ID, err)
			return ev
		}
		if _, rerr := b.Reply(ctx, n, err.Error()); rerr != nil {
			log.Warn("replying parse error to notification %s: %v", n.ID, rerr)
		}
		return ev
	}
	if inv.Empty() {
		return ev
	}

	ev.Command = inv.Name
	ev.Args = inv.Args

	cmd, ok := b.registry.Get(inv.Name)
	if !ok {
		log.Debug("ignoring unknown command %q from notification %s", inv.Name, n.ID)
		return ev
	}

	if err := invoke(ctx, cmd, n, inv.Args); err != nil {
		ev.Kind = EventFailed
		ev.Err = err
		var pe *PanicError
		if errors.As(err, &pe) {
			log.Error("unhandled error in command %s (notification %s): %v\n%s", cmd.Name, n.ID, err, pe.Stack)
		} else {
			log.Error("unhandled error in command %s (notification %s): %v", cmd.Name, n.ID, err)
		}
		return ev
	}

	ev.Kind = EventInvoked
	return ev
}

func invoke(ctx context.Context, cmd *commands.Command, n *fediverse.Notification, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return cmd.Handler(ctx, n, args)
}
