// ABOUTME: Defuses @mentions in outbound text with a zero-width space
// ABOUTME: Leaves @ signs inside links (preceded by "/") untouched

package richtext

import (
	"github.com/dlclark/regexp2"
)

// zeroWidthSpace stops clients from linking the following handle.
const zeroWidthSpace = "\u200b"

// nonLinkAtSign matches an @ not preceded by "/", so post URLs such as
// https://example.social/@bot/123 survive in help text.
var nonLinkAtSign = regexp2.MustCompile(`(?<!/)@`, regexp2.None)

// SanitizeMentions inserts a zero-width space after every @ that is not part
// of a link path, so example handles in help text do not notify anyone.
func SanitizeMentions(content string) string {
	out, err := nonLinkAtSign.Replace(content, "@"+zeroWidthSpace, -1, -1)
	if err != nil {
		// only a match timeout can fail, and none is configured
		return content
	}
	return out
}
