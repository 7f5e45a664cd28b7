// ABOUTME: Mastodon-compatible API entities used by the bot: accounts, statuses, notifications
// ABOUTME: Only the fields the dispatcher and reply logic read are modelled

package fediverse

// Visibility values accepted by the statuses endpoint.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
	VisibilityDirect   = "direct"
)

// ValidVisibility reports whether v is one of the four visibility levels.
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate, VisibilityDirect:
		return true
	}
	return false
}

// Account is a user on the instance or a remote one.
type Account struct {
	ID          string
	Username    string
	Acct        string
	DisplayName string
	URL         string
	Bot         bool
}

// Mention is an account mentioned in a status.
type Mention struct {
	ID       string
	Username string
	Acct     string
	URL      string
}

// Attachment is a media file attached to a status.
type Attachment struct {
	ID          string
	Type        string // image, video, gifv, audio, unknown
	URL         string
	PreviewURL  string
	Description string
}

// Status is a post. Content is HTML.
type Status struct {
	ID               string
	URI              string
	URL              string
	Content          string
	Visibility       string
	SpoilerText      string
	Sensitive        bool
	InReplyToID      string
	CreatedAt        string
	Account          Account
	Mentions         []Mention
	MediaAttachments []Attachment
}

// Notification wraps an event on the bot's account. Status is nil for types
// that carry none (follow, follow_request).
type Notification struct {
	ID        string
	Type      string
	CreatedAt string
	Account   Account
	Status    *Status
}

// Context is the thread around a status.
type Context struct {
	Ancestors   []Status
	Descendants []Status
}

// Poll describes a poll attached to a new status.
type Poll struct {
	Options    []string
	ExpiresIn  int // seconds
	Multiple   bool
	HideTotals bool
}

// StatusParams are the fields of a new status.
type StatusParams struct {
	Status      string
	InReplyToID string
	MediaIDs    []string
	Sensitive   bool
	Visibility  string
	SpoilerText string
	Language    string
	ContentType string // Pleroma: text/plain, text/markdown, text/html, text/bbcode
	ScheduledAt string // RFC 3339
	Poll        *Poll
	// IdempotencyKey is sent as a header; a random one is generated when empty.
	IdempotencyKey string
}
