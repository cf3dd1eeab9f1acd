package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// Arity is the argument shape of a command
type Arity int

const (
	// ArityNone matches the bare command only
	ArityNone Arity = iota
	// ArityRest requires a non-empty argument (the rest of the text)
	ArityRest
	// ArityOptional matches with or without an argument
	ArityOptional
)

// Filter decides whether a message may trigger a command
type Filter func(msg *domain.Message) bool

// Outgoing accepts messages authored by the account
func Outgoing(msg *domain.Message) bool {
	return msg.Outgoing
}

// PrivateOnly accepts messages in one-to-one conversations
func PrivateOnly(msg *domain.Message) bool {
	return msg.Chat.IsPrivate()
}

// All combines filters, every filter must accept
func All(filters ...Filter) Filter {
	return func(msg *domain.Message) bool {
		for _, f := range filters {
			if !f(msg) {
				return false
			}
		}
		return true
	}
}

// HandlerFunc handles a matched command; arg is the trimmed argument
type HandlerFunc func(ctx context.Context, msg *domain.Message, arg string) error

// Command is one entry of the command table
type Command struct {
	Name    string
	Arity   Arity
	Filter  Filter
	Handler HandlerFunc
}

// Match checks the text against the command and returns the argument.
// Matching is case-sensitive; the argument must be separated by whitespace.
func (c *Command) Match(text string) (string, bool) {
	trigger := "." + c.Name
	if !strings.HasPrefix(text, trigger) {
		return "", false
	}
	rest := text[len(trigger):]
	if rest != "" {
		r := []rune(rest)[0]
		if !unicode.IsSpace(r) {
			return "", false
		}
	}
	arg := strings.TrimSpace(rest)

	switch c.Arity {
	case ArityNone:
		if arg != "" {
			return "", false
		}
	case ArityRest:
		if arg == "" {
			return "", false
		}
	}
	return arg, true
}

// Dispatcher routes self-authored messages through an ordered command table
type Dispatcher struct {
	commands  []Command
	messenger repo.MessengerRepo
	logger    *zap.Logger
}

// NewDispatcher creates a new dispatcher; commands are evaluated in order
func NewDispatcher(commands []Command, messenger repo.MessengerRepo, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		commands:  commands,
		messenger: messenger,
		logger:    logger.Named("dispatcher"),
	}
}

// Commands returns the command names in table order
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for _, c := range d.commands {
		names = append(names, "."+c.Name)
	}
	return names
}

// Dispatch runs the first command matching the message.
// The trigger message is deleted before the handler runs.
// Returns false when no command matched.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *domain.Message) bool {
	if !msg.HasText() {
		return false
	}

	for i := range d.commands {
		cmd := &d.commands[i]
		if cmd.Filter != nil && !cmd.Filter(msg) {
			continue
		}
		arg, ok := cmd.Match(msg.Text)
		if !ok {
			continue
		}

		d.run(ctx, cmd, msg, arg)
		return true
	}
	return false
}

func (d *Dispatcher) run(ctx context.Context, cmd *Command, msg *domain.Message, arg string) {
	logger := d.logger.With(zap.String("command", cmd.Name), zap.Int64("chat_id", msg.Chat.ID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked", zap.Any("panic", r))
		}
	}()

	if err := d.messenger.DeleteMessage(ctx, msg.Chat, msg.ID); err != nil {
		logger.Warn("failed to delete trigger message", zap.Error(err))
	}

	if err := cmd.Handler(ctx, msg, arg); err != nil {
		logger.Error("command failed", zap.Error(fmt.Errorf("handle .%s: %w", cmd.Name, err)))
	}
}
