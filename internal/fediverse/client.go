// ABOUTME: Mastodon-compatible REST client: credentials, notifications, statuses, media
// ABOUTME: Bearer auth over internal/httputil; easyjson bodies; Idempotency-Key via uuid

package fediverse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mailru/easyjson"

	"github.com/mauromedda/fedibot-go/internal/httputil"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// ErrNothingToPost is returned by PostStatus for an empty status without media or poll.
var ErrNothingToPost = errors.New("nothing provided to post")

// APIError is a non-2xx response from the instance.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// Options configures a Client.
type Options struct {
	AccessToken       string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
	// Backoff overrides the retry schedule of the underlying HTTP client.
	Backoff func(attempt int) time.Duration
}

// Client talks to one instance on behalf of one account.
type Client struct {
	http *httputil.Client
}

// NewClient creates a client for the instance at instanceURL.
func NewClient(instanceURL string, opts Options) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if opts.AccessToken != "" {
		headers["Authorization"] = "Bearer " + opts.AccessToken
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}
	return &Client{
		http: httputil.NewClient(instanceURL, httputil.Options{
			Headers:           headers,
			RequestsPerSecond: opts.RequestsPerSecond,
			Timeout:           opts.Timeout,
			Backoff:           opts.Backoff,
		}),
	}
}

// Me returns the account the access token belongs to.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.do(ctx, http.MethodGet, "/api/v1/accounts/verify_credentials", nil, nil, &acct); err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	return &acct, nil
}

// Paging limits for the notifications endpoint. 40 is the largest page
// Mastodon and Pleroma serve; the page cap stops a server that ignores max_id.
const (
	notificationPageSize = 40
	maxNotificationPages = 100
)

// Notifications returns every pending notification, newest first as the
// server sends them, following max_id until an empty page. With
// mentionsOnly, only "mention" notifications are returned.
func (c *Client) Notifications(ctx context.Context, mentionsOnly bool) ([]Notification, error) {
	var (
		all   []Notification
		maxID string
	)
	for range maxNotificationPages {
		q := url.Values{"limit": {strconv.Itoa(notificationPageSize)}}
		if mentionsOnly {
			q.Set("types[]", "mention")
		}
		if maxID != "" {
			q.Set("max_id", maxID)
		}

		var page notificationList
		if err := c.do(ctx, http.MethodGet, "/api/v1/notifications?"+q.Encode(), nil, nil, &page); err != nil {
			return nil, fmt.Errorf("fetch notifications: %w", err)
		}
		if len(page) == 0 {
			break
		}
		last := page[len(page)-1].ID
		if last == "" || last == maxID {
			break
		}

		for _, n := range page {
			// older servers ignore types[]
			if mentionsOnly && (n.Type != "mention" || n.Status == nil) {
				continue
			}
			all = append(all, n)
		}
		maxID = last
	}
	return all, nil
}

// MentionNotifications returns pending mention notifications.
func (c *Client) MentionNotifications(ctx context.Context) ([]Notification, error) {
	return c.Notifications(ctx, true)
}

// ClearNotifications dismisses every notification. Repeating it is harmless.
func (c *Client) ClearNotifications(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/notifications/clear", nil, nil, nil); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// validContentTypes are the Pleroma post formats.
var validContentTypes = map[string]bool{
	"text/plain":    true,
	"text/html":     true,
	"text/markdown": true,
	"text/bbcode":   true,
}

// PostStatus publishes a status.
func (c *Client) PostStatus(ctx context.Context, p StatusParams) (*Status, error) {
	if p.Status == "" && len(p.MediaIDs) == 0 && p.Poll == nil {
		return nil, ErrNothingToPost
	}
	if p.Poll != nil && len(p.MediaIDs) > 0 {
		return nil, errors.New("status can have media or poll attached, not both")
	}
	if p.Visibility != "" {
		p.Visibility = strings.ToLower(p.Visibility)
		if !ValidVisibility(p.Visibility) {
			return nil, fmt.Errorf("invalid visibility %q", p.Visibility)
		}
	}
	if p.ContentType != "" && !validContentTypes[p.ContentType] {
		return nil, fmt.Errorf("invalid content type %q", p.ContentType)
	}

	body, err := easyjson.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}

	key := p.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Idempotency-Key", key)

	var st Status
	if err := c.do(ctx, http.MethodPost, "/api/v1/statuses", bytes.NewReader(body), hdr, &st); err != nil {
		return nil, fmt.Errorf("post status: %w", err)
	}
	return &st, nil
}

// StatusContext returns the ancestors and descendants of a status.
func (c *Client) StatusContext(ctx context.Context, id string) (*Context, error) {
	var tc Context
	path := "/api/v1/statuses/" + url.PathEscape(id) + "/context"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &tc); err != nil {
		return nil, fmt.Errorf("status context %s: %w", id, err)
	}
	return &tc, nil
}

// MediaUpload is a file to attach to a later status.
type MediaUpload struct {
	Data        []byte
	FileName    string // optional; generated from the MIME type when empty
	MimeType    string // optional; guessed from FileName, then from content
	Description string
	// Focus is the focal point, both coordinates in [-1, 1].
	Focus *[2]float64
}

// UploadMedia uploads an image, video or audio file and returns the
// attachment whose ID can go into StatusParams.MediaIDs.
func (c *Client) UploadMedia(ctx context.Context, m MediaUpload) (*Attachment, error) {
	if len(m.Data) == 0 {
		return nil, errors.New("upload media: empty file")
	}

	mimeType := m.MimeType
	if mimeType == "" && m.FileName != "" {
		mimeType = mime.TypeByExtension(filepath.Ext(m.FileName))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(m.Data)
	}

	fileName := m.FileName
	if fileName == "" {
		ext := ""
		if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
			ext = exts[0]
		}
		fileName = strconv.FormatInt(time.Now().Unix(), 10) + "_" + uuid.NewString()[:8] + ext
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName)},
		"Content-Type":        {mimeType},
	})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if _, err := part.Write(m.Data); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if m.Description != "" {
		if err := w.WriteField("description", m.Description); err != nil {
			return nil, fmt.Errorf("upload media: %w", err)
		}
	}
	if m.Focus != nil {
		x, y := m.Focus[0], m.Focus[1]
		if x < -1 || x > 1 || y < -1 || y > 1 {
			return nil, fmt.Errorf("upload media: focus (%g, %g) out of range [-1, 1]", x, y)
		}
		focus := strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64)
		if err := w.WriteField("focus", focus); err != nil {
			return nil, fmt.Errorf("upload media: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	hdr := http.Header{}
	hdr.Set("Content-Type", w.FormDataContentType())

	var att Attachment
	if err := c.do(ctx, http.MethodPost, "/api/v1/media", bytes.NewReader(buf.Bytes()), hdr, &att); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	return &att, nil
}

// do sends a request and decodes a successful response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, hdr http.Header, out easyjson.Unmarshaler) error {
	resp, err := c.http.Do(ctx, method, path, body, hdr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var e apiError
		if len(data) > 0 && easyjson.Unmarshal(data, &e) == nil {
			apiErr.Message = e.message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := easyjson.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
