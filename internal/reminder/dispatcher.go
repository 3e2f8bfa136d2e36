package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/chorechamp/internal/model"
)

var (
	ErrChoreNotFound = errors.New("chore not found")
	ErrNoAssignee    = errors.New("chore has no assignee")
)

// Household is the part of the household state the dispatcher reads and
// writes. Results only ever go to the chat log.
type Household interface {
	Chore(id string) (model.Chore, bool)
	Member(id string) (model.Member, bool)
	AppendChatMessage(ctx context.Context, msg model.ChatMessage) model.ChatMessage
}

// Dispatcher sends reminders in the background.
type Dispatcher struct {
	household Household
	gen       Generator
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(h Household, gen Generator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{household: h, gen: gen, logger: logger}
}

// Send posts a "generating" notice and starts generating a reminder for the
// chore's assignee. It returns once the work is started. The generation is
// not bound to ctx's cancellation and has no deadline; its outcome is always
// appended to the chat log, even if the chore changed in the meantime.
func (d *Dispatcher) Send(ctx context.Context, choreID string) error {
	c, ok := d.household.Chore(choreID)
	if !ok {
		return ErrChoreNotFound
	}
	if c.AssignedTo == nil {
		return ErrNoAssignee
	}
	m, ok := d.household.Member(*c.AssignedTo)
	if !ok {
		return ErrNoAssignee
	}

	d.household.AppendChatMessage(ctx, model.ChatMessage{
		Sender: model.SenderSystem,
		Text:   fmt.Sprintf("Generating reminder for %s about \"%s\"...", m.Name, c.Name),
		Type:   model.MessageTypeSystem,
	})

	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(bg, c.Name, m.Name)
	}()
	return nil
}

func (d *Dispatcher) run(ctx context.Context, choreName, memberName string) {
	text, err := d.gen.Generate(ctx, choreName, memberName)
	text = strings.TrimSpace(text)

	switch {
	case err == nil && text != "":
	case err == nil || errors.Is(err, ErrEmptyResponse):
		d.logger.Warn("empty reminder, using default", "chore", choreName, "member", memberName)
		text = Fallback(choreName, memberName)
	default:
		d.logger.Error("generate reminder", "chore", choreName, "member", memberName, "error", err)
		d.household.AppendChatMessage(ctx, model.ChatMessage{
			Sender: model.SenderSystem,
			Text:   fmt.Sprintf("Could not generate reminder for \"%s\": %v", choreName, err),
			Type:   model.MessageTypeError,
		})
		text = Fallback(choreName, memberName)
	}

	d.household.AppendChatMessage(ctx, model.ChatMessage{
		Sender: model.SenderSystem,
		Text:   fmt.Sprintf("Reminder for %s: %s", memberName, text),
		Type:   model.MessageTypeReminder,
	})
}

// Wait blocks until every reminder started by Send has been recorded.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
