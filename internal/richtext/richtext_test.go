// ABOUTME: Tests for HTML-to-plain conversion and mention sanitizing
// ABOUTME: Uses status HTML shaped like Pleroma and Mastodon output

package richtext

import "testing"

func TestHTMLToPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain passthrough",
			content: "@bot ping",
			want:    "@bot ping",
		},
		{
			name: "pleroma mention markup",
			content: `<span class="h-card"><a class="u-url mention" href="https://example.social/users/bot">` +
				`@<span>bot</span></a></span> ping pong`,
			want: "@bot ping pong",
		},
		{
			name:    "line breaks",
			content: "@a foo<br>@bot bar<br/>baz",
			want:    "@a foo\n@bot bar\nbaz",
		},
		{
			name:    "paragraphs",
			content: "<p>@a foo</p><p>@bot bar</p>",
			want:    "@a foo\n@bot bar",
		},
		{
			name:    "entities",
			content: "@bot say &quot;hi there&quot; &amp; more",
			want:    `@bot say "hi there" & more`,
		},
		{
			name:    "nfc normalisation",
			content: "cafe\u0301",
			want:    "caf\u00e9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HTMLToPlain(tt.content); got != tt.want {
				t.Errorf("HTMLToPlain(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSanitizeMentions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"mention @alice please", "mention @\u200balice please"},
		{"@a @b", "@\u200ba @\u200bb"},
		{"see https://example.social/@bot/123", "see https://example.social/@bot/123"},
		{"no at signs", "no at signs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeMentions(tt.in); got != tt.want {
			t.Errorf("SanitizeMentions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
