// Package commands implements the chat commands that configure the relay.
// A command is written as "/post <name> [argument]".
package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/userprofile"
	"github.com/xrash/smetrics"
)

// Prefix is the token that starts every command.
const Prefix = "/post"

// maxSuggestDistance is the largest edit distance still offered as a suggestion.
const maxSuggestDistance = 3

// Context is what a handler knows about the user running the command.
type Context struct {
	UserID string
	Config userprofile.Config
}

// Result is the outcome of a command. A non-nil Config replaces the user's
// stored config; Messages are sent back as the reply.
type Result struct {
	Config   *userprofile.Config
	Messages []line.Message
}

// Handler runs a command with the text following its name.
type Handler func(ctx context.Context, cmdCtx Context, arg string) (Result, error)

// Command is one entry of the command table.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
}

// Registry is an ordered, fixed table of commands.
type Registry struct {
	commands []Command
}

// NewRegistry creates a registry from commands, keeping their order for help output.
func NewRegistry(commands ...Command) *Registry {
	return &Registry{commands: commands}
}

// Commands returns the registered commands in order.
func (r *Registry) Commands() []Command {
	return r.commands
}

// Parse recognizes a command invocation. ok is false when text does not
// start with Prefix. name is empty for a bare prefix.
func Parse(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	token, rest := splitFirst(text)
	if !strings.EqualFold(token, Prefix) {
		return "", "", false
	}
	name, arg = splitFirst(rest)
	return name, arg, true
}

// Dispatch runs the command called name. A bare prefix produces the help
// text and an unknown name an error reply with an optional suggestion.
func (r *Registry) Dispatch(ctx context.Context, cmdCtx Context, name, arg string) (Result, error) {
	if name == "" {
		return Result{Messages: []line.Message{line.TextMessage(r.Help())}}, nil
	}
	for _, command := range r.commands {
		if strings.EqualFold(command.Name, name) {
			return command.Handler(ctx, cmdCtx, arg)
		}
	}

	messages := []line.Message{line.TextMessage(fmt.Sprintf("Unknown command %q. Send %s to list the commands.", name, Prefix))}
	if suggestion := r.Suggest(name); suggestion != "" {
		messages = append(messages, line.TextMessage(fmt.Sprintf("Did you mean %q?", suggestion)))
	}
	return Result{Messages: messages}, nil
}

// Help lists every command with its usage and description.
func (r *Registry) Help() string {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, command := range r.commands {
		sb.WriteString("\n\n")
		sb.WriteString(Prefix + " " + command.Name)
		if command.Usage != "" {
			sb.WriteString(" " + command.Usage)
		}
		sb.WriteString("\n  " + command.Description)
	}
	return sb.String()
}

// Suggest returns the registered name closest to name, or "" when none is
// within maxSuggestDistance edits.
func (r *Registry) Suggest(name string) string {
	name = strings.ToLower(name)
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, command := range r.commands {
		distance := smetrics.WagnerFischer(name, strings.ToLower(command.Name), 1, 1, 1)
		if distance < bestDistance {
			bestDistance = distance
			best = command.Name
		}
	}
	return best
}

func splitFirst(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}
