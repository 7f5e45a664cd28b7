// ABOUTME: Bot ties the transport, command registry and tokenizer together
// ABOUTME: Fetches its own account once at construction; registers the built-in help command

package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/fedibot-go/internal/commands"
	"github.com/mauromedda/fedibot-go/internal/eventbus"
	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

// Transport is the part of the instance API the bot needs.
// *fediverse.Client implements it.
type Transport interface {
	Me(ctx context.Context) (*fediverse.Account, error)
	MentionNotifications(ctx context.Context) ([]fediverse.Notification, error)
	ClearNotifications(ctx context.Context) error
	PostStatus(ctx context.Context, p fediverse.StatusParams) (*fediverse.Status, error)
	StatusContext(ctx context.Context, id string) (*fediverse.Context, error)
}

var _ Transport = (*fediverse.Client)(nil)

// Options configures a Bot. Zero values select defaults.
type Options struct {
	// About is the text shown above the command list in help.
	About string
	// PollInterval is the pause between poll cycles (default 1s).
	PollInterval time.Duration
	// MaxBackoff caps the pause after consecutive failed cycles (default 1m).
	MaxBackoff time.Duration
	// DispatchConcurrency > 1 dispatches a batch's notifications concurrently.
	DispatchConcurrency int
	// MaxPostChars truncates replies to this many characters (default 5000).
	MaxPostChars int
}

// Bot answers commands addressed to its account.
type Bot struct {
	transport Transport
	me        fediverse.Account
	self      string // normalized acct used by the tokenizer
	about     string

	registry *commands.Registry
	events   *eventbus.Bus[Event]

	pollInterval time.Duration
	maxBackoff   time.Duration
	concurrency  int
	maxPostChars int

	state stateValue
}

// New creates a bot and looks up the account behind the transport's
// credentials. The account is not fetched again.
func New(ctx context.Context, t Transport, opts Options) (*Bot, error) {
	if t == nil {
		return nil, errors.New("bot: nil transport")
	}

	me, err := t.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching own account: %w", err)
	}
	if me.Acct == "" {
		return nil, errors.New("fetching own account: empty acct")
	}

	b := &Bot{
		transport:    t,
		me:           *me,
		self:         norm.NFC.String(me.Acct),
		about:        opts.About,
		registry:     commands.NewRegistry(),
		events:       eventbus.New[Event](),
		pollInterval: opts.PollInterval,
		maxBackoff:   opts.MaxBackoff,
		concurrency:  opts.DispatchConcurrency,
		maxPostChars: opts.MaxPostChars,
	}
	if b.pollInterval <= 0 {
		b.pollInterval = time.Second
	}
	if b.maxBackoff < b.pollInterval {
		b.maxBackoff = max(time.Minute, b.pollInterval)
	}
	if b.concurrency < 1 {
		b.concurrency = 1
	}
	if b.maxPostChars <= 0 {
		b.maxPostChars = 5000
	}

	b.registry.Register("help", helpDoc, b.help)
	return b, nil
}

// Me returns the bot's own account.
func (b *Bot) Me() fediverse.Account {
	return b.me
}

// Command registers a handler under name (underscores become hyphens).
// doc's first line is the short help shown in the command list; "{username}"
// in doc is replaced by the bot's handle when shown. Register every command
// before calling Run.
func (b *Bot) Command(name, doc string, h commands.Handler) *commands.Command {
	return b.registry.Register(name, doc, h)
}

// Commands returns the registry.
func (b *Bot) Commands() *commands.Registry {
	return b.registry
}

// Events returns the bus that reports dispatch outcomes and poll states.
func (b *Bot) Events() *eventbus.Bus[Event] {
	return b.events
}
