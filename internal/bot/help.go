// ABOUTME: Built-in help command: lists every command or shows one command's documentation
// ABOUTME: Suggests the closest name on a miss; all help text is mention-sanitized

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
	"github.com/mauromedda/fedibot-go/internal/richtext"
)

const helpDoc = "Shows this message. Pass the name of a command for more info."

func (b *Bot) help(ctx context.Context, n *fediverse.Notification, args []string) error {
	var text string
	if len(args) > 0 && args[0] != "" {
		text = b.commandHelp(args[0])
	} else {
		text = b.listing()
	}
	_, err := b.Reply(ctx, n, richtext.SanitizeMentions(text))
	return err
}

func (b *Bot) listing() string {
	var sb strings.Builder
	sb.WriteString(b.about)
	sb.WriteString("\nAvailable commands/help topics:\n\n")
	for i, cmd := range b.registry.List() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• ")
		sb.WriteString(cmd.Name)
		if cmd.ShortHelp != "" {
			sb.WriteString(" — ")
			sb.WriteString(cmd.ShortHelp)
		}
	}
	return sb.String()
}

func (b *Bot) commandHelp(name string) string {
	cmd, ok := b.registry.Get(name)
	if !ok {
		msg := fmt.Sprintf("Command %s not found.", name)
		if s := b.suggest(name); s != "" {
			msg += fmt.Sprintf(" Did you mean %s?", s)
		}
		return msg
	}
	if strings.TrimSpace(cmd.Doc) == "" {
		return fmt.Sprintf("%s: no help given.", name)
	}
	return b.formatDoc(cmd.Doc)
}

// suggest returns the registered name that best matches name, or "".
func (b *Bot) suggest(name string) string {
	matches := fuzzy.Find(name, b.registry.Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// formatDoc fills in the bot's handle and strips docstring-style indentation.
func (b *Bot) formatDoc(doc string) string {
	return cleanDoc(strings.ReplaceAll(doc, "{username}", b.me.Acct))
}

// cleanDoc trims leading whitespace from the first line, removes the
// indentation shared by the remaining non-blank lines, and drops blank
// lines at both ends.
func cleanDoc(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = expandTabs(line, 8)
	}

	indent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := range lines {
		if i > 0 {
			if indent > 0 && len(lines[i]) >= indent {
				lines[i] = lines[i][indent:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
		lines[i] = strings.TrimRight(lines[i], " ")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// expandTabs replaces each tab with spaces up to the next multiple of width.
func expandTabs(line string, width int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var sb strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			pad := width - col%width
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
