// ABOUTME: easyjson lexer/writer codecs for API entities (no reflection on the poll path)
// ABOUTME: Unknown fields are skipped; nulls leave zero values

package fediverse

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// decodeObject walks the fields of a JSON object, calling field for each key.
// field must consume the value (or call in.SkipRecursive).
func decodeObject(in *jlexer.Lexer, field func(key string)) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		field(key)
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// decodeArray walks the elements of a JSON array, calling elem for each one.
func decodeArray(in *jlexer.Lexer, elem func()) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('[')
	for !in.IsDelim(']') {
		elem()
		in.WantComma()
	}
	in.Delim(']')
	if isTopLevel {
		in.Consumed()
	}
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (a *Account) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			a.ID = in.String()
		case "username":
			a.Username = in.String()
		case "acct":
			a.Acct = in.String()
		case "display_name":
			a.DisplayName = in.String()
		case "url":
			a.URL = in.String()
		case "bot":
			a.Bot = in.Bool()
		default:
			in.SkipRecursive()
		}
	})
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (m *Mention) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			m.ID = in.String()
		case "username":
			m.Username = in.String()
		case "acct":
			m.Acct = in.String()
		case "url":
			m.URL = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (a *Attachment) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			a.ID = in.String()
		case "type":
			a.Type = in.String()
		case "url":
			a.URL = in.String()
		case "preview_url":
			a.PreviewURL = in.String()
		case "description":
			a.Description = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (s *Status) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			s.ID = in.String()
		case "uri":
			s.URI = in.String()
		case "url":
			s.URL = in.String()
		case "content":
			s.Content = in.String()
		case "visibility":
			s.Visibility = in.String()
		case "spoiler_text":
			s.SpoilerText = in.String()
		case "sensitive":
			s.Sensitive = in.Bool()
		case "in_reply_to_id":
			s.InReplyToID = in.String()
		case "created_at":
			s.CreatedAt = in.String()
		case "account":
			s.Account.UnmarshalEasyJSON(in)
		case "mentions":
			s.Mentions = s.Mentions[:0]
			decodeArray(in, func() {
				var m Mention
				m.UnmarshalEasyJSON(in)
				s.Mentions = append(s.Mentions, m)
			})
		case "media_attachments":
			s.MediaAttachments = s.MediaAttachments[:0]
			decodeArray(in, func() {
				var a Attachment
				a.UnmarshalEasyJSON(in)
				s.MediaAttachments = append(s.MediaAttachments, a)
			})
		default:
			in.SkipRecursive()
		}
	})
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (n *Notification) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			n.ID = in.String()
		case "type":
			n.Type = in.String()
		case "created_at":
			n.CreatedAt = in.String()
		case "account":
			n.Account.UnmarshalEasyJSON(in)
		case "status":
			n.Status = new(Status)
			n.Status.UnmarshalEasyJSON(in)
		default:
			in.SkipRecursive()
		}
	})
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (c *Context) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "ancestors":
			c.Ancestors = decodeStatuses(in)
		case "descendants":
			c.Descendants = decodeStatuses(in)
		default:
			in.SkipRecursive()
		}
	})
}

func decodeStatuses(in *jlexer.Lexer) []Status {
	var out []Status
	decodeArray(in, func() {
		var s Status
		s.UnmarshalEasyJSON(in)
		out = append(out, s)
	})
	return out
}

// notificationList decodes the notifications endpoint's top-level array.
type notificationList []Notification

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (l *notificationList) UnmarshalEasyJSON(in *jlexer.Lexer) {
	*l = (*l)[:0]
	decodeArray(in, func() {
		var n Notification
		n.UnmarshalEasyJSON(in)
		*l = append(*l, n)
	})
}

// apiError decodes the {"error": "..."} body of failed requests.
type apiError struct {
	message string
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (e *apiError) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "error":
			e.message = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

// MarshalEasyJSON implements easyjson.Marshaler. Empty optional fields are
// omitted so the server applies the account defaults.
func (p *StatusParams) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	first := true
	field := func(name string) {
		if !first {
			out.RawByte(',')
		}
		first = false
		out.String(name)
		out.RawByte(':')
	}
	optString := func(name, v string) {
		if v != "" {
			field(name)
			out.String(v)
		}
	}

	field("status")
	out.String(p.Status)
	optString("in_reply_to_id", p.InReplyToID)
	if len(p.MediaIDs) > 0 {
		field("media_ids")
		out.RawByte('[')
		for i, id := range p.MediaIDs {
			if i > 0 {
				out.RawByte(',')
			}
			out.String(id)
		}
		out.RawByte(']')
	}
	if p.Sensitive {
		field("sensitive")
		out.Bool(true)
	}
	optString("visibility", p.Visibility)
	optString("spoiler_text", p.SpoilerText)
	optString("language", p.Language)
	optString("content_type", p.ContentType)
	optString("scheduled_at", p.ScheduledAt)
	if p.Poll != nil {
		field("poll")
		out.RawString(`{"options":[`)
		for i, opt := range p.Poll.Options {
			if i > 0 {
				out.RawByte(',')
			}
			out.String(opt)
		}
		out.RawString(`],"expires_in":`)
		out.Int(p.Poll.ExpiresIn)
		out.RawString(`,"multiple":`)
		out.Bool(p.Poll.Multiple)
		out.RawString(`,"hide_totals":`)
		out.Bool(p.Poll.HideTotals)
		out.RawByte('}')
	}
	out.RawByte('}')
}

var (
	_ easyjson.Unmarshaler = (*Notification)(nil)
	_ easyjson.Unmarshaler = (*Context)(nil)
	_ easyjson.Marshaler   = (*StatusParams)(nil)
)
