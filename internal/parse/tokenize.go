// ABOUTME: Mention-aware tokenizer: finds the mention block addressed to the bot
// ABOUTME: Returns the command name and quoted-aware argument list that follow it

package parse

import "strings"

// Invocation is a command name plus its ordered arguments.
// An empty Name means no command addressed to the bot was found.
type Invocation struct {
	Name string
	Args []string
}

// Empty reports whether no command was found.
func (inv Invocation) Empty() bool {
	return inv.Name == ""
}

// Tokenize extracts the invocation from plain-text post content.
//
// Content is read word by word. A run of @-prefixed words is a mention block;
// collection starts after the first block that contains "@"+self and ends at
// the next mention block or end of input. Only collected words are parsed
// with quoting rules, so malformed quotes elsewhere never fail.
//
//	"@a @b @bot @c ping pong"              -> ping [pong]
//	"@a @b @c foo bar\n@bot quux garply"   -> quux [garply]
func Tokenize(content, self string) (Invocation, error) {
	var (
		words          []string
		inMentionBlock bool
		hasMe          bool
	)
	me := "@" + self

	view := NewView(content)
	for {
		view.SkipWS()
		if view.EOF() {
			break
		}
		word := view.Word()
		isMention := strings.HasPrefix(word, "@")

		// only the first block of mentions that pings us counts
		if len(words) > 0 && !inMentionBlock && isMention {
			break
		}

		switch {
		case word == me:
			hasMe = true
			inMentionBlock = true
		case isMention && !inMentionBlock:
			inMentionBlock = true
			hasMe = false
		case !isMention:
			inMentionBlock = false
		}

		if hasMe && !inMentionBlock {
			view.Undo()
			arg, err := view.QuotedWord()
			if err != nil {
				return Invocation{}, err
			}
			words = append(words, arg)
		}
	}

	if len(words) == 0 {
		return Invocation{}, nil
	}
	return Invocation{Name: words[0], Args: words[1:]}, nil
}
