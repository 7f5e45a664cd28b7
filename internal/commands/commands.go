// ABOUTME: Command registry mapping hyphenated command names to handlers
// ABOUTME: Keeps registration order for help listings; re-registering a name replaces it

package commands

import (
	"context"
	"strings"

	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

// Handler runs a command for the notification that invoked it.
type Handler func(ctx context.Context, n *fediverse.Notification, args []string) error

// Command is a registered command. It is not modified after registration.
type Command struct {
	Name      string
	ShortHelp string // first line of Doc, empty when undocumented
	Doc       string
	Handler   Handler
}

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// NormalizeName turns an identifier like "roll_dice" into the public
// command name "roll-dice".
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "_", "-")
}

// Register adds a command and returns the stored record. A command with the
// same normalized name is replaced; the replacement keeps the old listing
// position.
func (r *Registry) Register(name, doc string, h Handler) *Command {
	cmd := &Command{
		Name:      NormalizeName(name),
		ShortHelp: firstLine(doc),
		Doc:       doc,
		Handler:   h,
	}
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return cmd
}

// Get returns a command by name.
// The second return value indicates whether the name was found.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns every command once, in registration order.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.commands[name])
	}
	return result
}

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}

func firstLine(doc string) string {
	doc = strings.TrimLeft(doc, "\n")
	line, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSpace(line)
}
