// ABOUTME: Replies that keep a thread's participants and never widen its audience
// ABOUTME: Also finds media in a status or its ancestors for commands that process attachments

package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

// ErrNoStatus is returned when replying to a notification without a status.
var ErrNoStatus = errors.New("notification has no status")

// ErrNoMedia is returned by Media when neither the status nor any ancestor
// carries a matching attachment.
var ErrNoMedia = errors.New("no matching media in status or its ancestors")

// Reply answers the status behind n with text.
func (b *Bot) Reply(ctx context.Context, n *fediverse.Notification, text string) (*fediverse.Status, error) {
	if n == nil || n.Status == nil {
		return nil, ErrNoStatus
	}
	return b.ReplyWith(ctx, n.Status, fediverse.StatusParams{Status: text})
}

// ReplyWith answers st with p. The author of st is mentioned first, followed
// by everyone st mentioned except the bot and the author. Public and
// unlisted threads get unlisted replies; private and direct threads keep
// their visibility. A content warning on st is carried over unless p sets one.
func (b *Bot) ReplyWith(ctx context.Context, st *fediverse.Status, p fediverse.StatusParams) (*fediverse.Status, error) {
	if st == nil {
		return nil, ErrNoStatus
	}

	// the addressees always survive; only the body is shortened
	prefix := mentionPrefix(st, b.me.Acct)
	budget := max(b.maxPostChars-uniseg.GraphemeClusterCount(prefix), 1)
	p.Status = prefix + truncate(p.Status, budget)
	p.InReplyToID = st.ID
	p.Visibility = replyVisibility(st.Visibility, p.Visibility)
	if p.SpoilerText == "" {
		p.SpoilerText = st.SpoilerText
	}

	return b.transport.PostStatus(ctx, p)
}

// mentionPrefix renders "@author @other ... " for a reply to st.
func mentionPrefix(st *fediverse.Status, self string) string {
	seen := map[string]bool{self: true}
	var accts []string
	add := func(acct string) {
		if acct == "" || seen[acct] {
			return
		}
		seen[acct] = true
		accts = append(accts, acct)
	}

	add(st.Account.Acct)
	for _, m := range st.Mentions {
		add(m.Acct)
	}
	if len(accts) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, acct := range accts {
		sb.WriteByte('@')
		sb.WriteString(acct)
		sb.WriteByte(' ')
	}
	return sb.String()
}

func replyVisibility(original, requested string) string {
	switch original {
	case fediverse.VisibilityPublic, fediverse.VisibilityUnlisted:
		return fediverse.VisibilityUnlisted
	case fediverse.VisibilityPrivate, fediverse.VisibilityDirect:
		return original
	}
	if requested != "" {
		return requested
	}
	return fediverse.VisibilityUnlisted
}

// truncate cuts s to at most limit user-perceived characters, ending with
// an ellipsis when anything was dropped.
func truncate(s string, limit int) string {
	if limit <= 0 || uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}

	var sb strings.Builder
	g := uniseg.NewGraphemes(s)
	for kept := 0; kept < limit-1 && g.Next(); kept++ {
		sb.WriteString(g.Str())
	}
	sb.WriteString("…")
	return sb.String()
}

// Media returns the first attachment of the given type ("" for any type)
// on st, or failing that the first one found among its ancestors, oldest
// first.
func (b *Bot) Media(ctx context.Context, st *fediverse.Status, kind string) (*fediverse.Attachment, error) {
	if st == nil {
		return nil, ErrNoStatus
	}
	if a := findAttachment(st, kind); a != nil {
		return a, nil
	}

	thread, err := b.transport.StatusContext(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	for i := range thread.Ancestors {
		if a := findAttachment(&thread.Ancestors[i], kind); a != nil {
			return a, nil
		}
	}
	return nil, ErrNoMedia
}

// Image is Media restricted to images.
func (b *Bot) Image(ctx context.Context, st *fediverse.Status) (*fediverse.Attachment, error) {
	return b.Media(ctx, st, "image")
}

// Video is Media restricted to videos.
func (b *Bot) Video(ctx context.Context, st *fediverse.Status) (*fediverse.Attachment, error) {
	return b.Media(ctx, st, "video")
}

func findAttachment(st *fediverse.Status, kind string) *fediverse.Attachment {
	for i := range st.MediaAttachments {
		if kind == "" || st.MediaAttachments[i].Type == kind {
			return &st.MediaAttachments[i]
		}
	}
	return nil
}
