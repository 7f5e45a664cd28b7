// ABOUTME: In-memory Transport used by the bot tests
// ABOUTME: Scripts fetch results per call and records posts and clears

package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTransport struct {
	mu sync.Mutex

	me      fediverse.Account
	meErr   error
	meCalls int

	// fetch returns the result of the n-th fetch (0-based); nil fetch means
	// an empty queue.
	fetch   func(n int) ([]fediverse.Notification, error)
	fetches int

	clears   int
	clearErr error
	onClear  func()

	posts  []fediverse.StatusParams
	thread fediverse.Context
}

func newFake() *fakeTransport {
	return &fakeTransport{me: fediverse.Account{ID: "1", Username: "bot", Acct: "bot"}}
}

func (f *fakeTransport) Me(context.Context) (*fediverse.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	me := f.me
	return &me, nil
}

func (f *fakeTransport) MentionNotifications(ctx context.Context) ([]fediverse.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	n := f.fetches
	f.fetches++
	fetch := f.fetch
	f.mu.Unlock()
	if fetch == nil {
		return nil, nil
	}
	return fetch(n)
}

func (f *fakeTransport) ClearNotifications(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.clears++
	hook, err := f.onClear, f.clearErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeTransport) PostStatus(_ context.Context, p fediverse.StatusParams) (*fediverse.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.Status == "" {
		return nil, errors.New("empty post")
	}
	f.posts = append(f.posts, p)
	return &fediverse.Status{ID: "posted", Content: p.Status, Visibility: p.Visibility}, nil
}

func (f *fakeTransport) StatusContext(_ context.Context, id string) (*fediverse.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread := f.thread
	return &thread, nil
}

func (f *fakeTransport) postTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, len(f.posts))
	for i, p := range f.posts {
		texts[i] = p.Status
	}
	return texts
}

func (f *fakeTransport) counts() (fetches, clears int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches, f.clears
}

// mention builds a notification from author whose status renders content.
func mention(id, author, content string, mentioned ...string) fediverse.Notification {
	st := &fediverse.Status{
		ID:         "s" + id,
		Content:    content,
		Visibility: fediverse.VisibilityPublic,
		Account:    fediverse.Account{Acct: author},
	}
	for _, acct := range mentioned {
		st.Mentions = append(st.Mentions, fediverse.Mention{Acct: acct})
	}
	return fediverse.Notification{ID: id, Type: "mention", Account: st.Account, Status: st}
}

func newTestBot(t *testing.T, f *fakeTransport, opts Options) *Bot {
	t.Helper()
	b, err := New(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}
