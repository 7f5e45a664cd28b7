// ABOUTME: Forward-only rune cursor over command text with one level of undo
// ABOUTME: Provides whitespace skipping, word and quoted-word extraction

package parse

import (
	"strings"
	"unicode"
)

// quotePairs maps every recognised opening quote to its closing quote.
var quotePairs = map[rune]rune{
	'"':      '"',
	'\u2018': '\u2019', // ‘ ’
	'\u201a': '\u201b', // ‚ ‛
	'\u201c': '\u201d', // “ ”
	'\u201e': '\u201f', // „ ‟
	'\u2e42': '\u2e42', // ⹂ ⹂
	'\u300c': '\u300d', // 「 」
	'\u300e': '\u300f', // 『 』
	'\u301d': '\u301e', // 〝 〞
	'\ufe41': '\ufe42', // ﹁ ﹂
	'\ufe43': '\ufe44', // ﹃ ﹄
	'\uff02': '\uff02', // ＂ ＂
	'\uff62': '\uff63', // ｢ ｣
	'\u00ab': '\u00bb', // « »
	'\u2039': '\u203a', // ‹ ›
	'\u300a': '\u300b', // 《 》
	'\u3008': '\u3009', // 〈 〉
}

var allQuotes = func() map[rune]bool {
	m := make(map[rune]bool, len(quotePairs)*2)
	for opening, closing := range quotePairs {
		m[opening] = true
		m[closing] = true
	}
	return m
}()

// IsQuote reports whether r is an opening or closing quote character.
func IsQuote(r rune) bool {
	return allQuotes[r]
}

// View is a cursor over an immutable string. The offset counts runes and
// never exceeds the length of the input.
type View struct {
	buf      []rune
	index    int
	previous int
}

// NewView creates a view positioned at the start of s.
func NewView(s string) *View {
	return &View{buf: []rune(s)}
}

// EOF reports whether the cursor is at the end of input.
func (v *View) EOF() bool {
	return v.index >= len(v.buf)
}

// Offset returns the cursor position in runes.
func (v *View) Offset() int {
	return v.index
}

// SkipWS advances past a run of whitespace and reports whether it moved.
func (v *View) SkipWS() bool {
	start := v.index
	for !v.EOF() && unicode.IsSpace(v.buf[v.index]) {
		v.index++
	}
	return v.index != start
}

// Word returns the next run of non-whitespace runes and advances past it.
// At end of input it returns "" without moving.
func (v *View) Word() string {
	v.previous = v.index
	end := v.index
	for end < len(v.buf) && !unicode.IsSpace(v.buf[end]) {
		end++
	}
	word := string(v.buf[v.index:end])
	v.index = end
	return word
}

// Undo rewinds the cursor to the start of the token most recently returned
// by Word or QuotedWord. Only one level is kept.
func (v *View) Undo() {
	v.index = v.previous
}

// QuotedWord reads a word that may be wrapped in a pair of quote characters.
//
// Inside a quoted word, a backslash escapes either quote of the pair; any
// other backslash is kept literally. The closing quote must be followed by
// whitespace or end of input. An unquoted word may not contain a quote
// character after its first rune, though quotes can be escaped.
func (v *View) QuotedWord() (string, error) {
	v.previous = v.index
	if v.EOF() {
		return "", nil
	}

	first := v.buf[v.index]
	v.index++

	closeQuote, quoted := quotePairs[first]

	var b strings.Builder
	escapable := IsQuote
	if quoted {
		escapable = func(r rune) bool { return r == first || r == closeQuote }
	} else {
		b.WriteRune(first)
	}

	for {
		if v.EOF() {
			if quoted {
				return "", &ExpectedClosingQuoteError{CloseQuote: closeQuote}
			}
			return b.String(), nil
		}

		r := v.buf[v.index]
		v.index++

		if r == '\\' {
			if v.EOF() {
				if quoted {
					return "", &ExpectedClosingQuoteError{CloseQuote: closeQuote}
				}
				// a dangling escape is dropped
				return b.String(), nil
			}
			if next := v.buf[v.index]; escapable(next) {
				b.WriteRune(next)
				v.index++
			} else {
				b.WriteRune(r)
			}
			continue
		}

		if !quoted && IsQuote(r) {
			return "", &UnexpectedQuoteError{Quote: r}
		}

		if quoted && r == closeQuote {
			if !v.EOF() && !unicode.IsSpace(v.buf[v.index]) {
				return "", &InvalidEndOfQuotedStringError{Char: v.buf[v.index]}
			}
			return b.String(), nil
		}

		if !quoted && unicode.IsSpace(r) {
			v.index--
			return b.String(), nil
		}

		b.WriteRune(r)
	}
}
