// Package fanout resolves the recipient set of a persisted message and
// delivers it to every recipient that is currently reachable. Persistence
// always happens before any delivery; a failed durable write aborts the
// operation with no partial fan-out. Recipients without a live session
// simply miss the live event and catch up from history.
package fanout

import (
	"fmt"
	"log/slog"

	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/presence"
)

// MessageStore is the slice of the persistence collaborator the engine
// writes through.
type MessageStore interface {
	SaveMessage(msg *models.Message) error
}

// GroupStore resolves group recipient sets.
type GroupStore interface {
	GetGroupByCode(code string) (*models.Group, error)
}

type Engine struct {
	registry *presence.Registry
	messages MessageStore
	groups   GroupStore
	logger   *slog.Logger
}

func NewEngine(registry *presence.Registry, messages MessageStore, groups GroupStore, logger *slog.Logger) *Engine {
	return &Engine{
		registry: registry,
		messages: messages,
		groups:   groups,
		logger:   logger,
	}
}

func (e *Engine) deliver(code string, event models.Event) bool {
	session, ok := e.registry.Lookup(code)
	if !ok {
		return false
	}
	return session.Deliver(event)
}

// SendDirect persists a 1-1 message and delivers it to the sender's own
// session tagged self=true and the receiver's session tagged self=false.
func (e *Engine) SendDirect(p *models.SendMessagePayload) (*models.Message, error) {
	msg := &models.Message{
		SenderCode:   p.SenderCode,
		ReceiverCode: &p.ReceiverCode,
		Content:      p.Content,
		Type:         p.Type,
		FileName:     p.FileName,
		Caption:      p.Caption,
		ReplyTo:      p.ReplyTo,
	}
	if err := e.messages.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("persist direct message: %w", err)
	}

	e.deliver(p.SenderCode, models.NewEvent(models.EventNewMessage,
		models.DeliveredMessage{Message: *msg, Self: true}))
	e.deliver(p.ReceiverCode, models.NewEvent(models.EventNewMessage,
		models.DeliveredMessage{Message: *msg, Self: false}))

	return msg, nil
}

// SendGroup persists a group message and delivers it to the union of the
// group's member and admin sets; admins always receive group traffic even
// though they are stored apart from members. Each delivery carries the
// per-recipient self tag.
func (e *Engine) SendGroup(p *models.SendGroupMessagePayload) (*models.Message, error) {
	group, err := e.groups.GetGroupByCode(p.GroupCode)
	if err != nil {
		return nil, fmt.Errorf("resolve group %s: %w", p.GroupCode, err)
	}

	msg := &models.Message{
		SenderCode: p.SenderCode,
		GroupCode:  &p.GroupCode,
		Content:    p.Content,
		Type:       p.Type,
		FileName:   p.FileName,
		Caption:    p.Caption,
		ReplyTo:    p.ReplyTo,
	}
	if err := e.messages.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("persist group message: %w", err)
	}

	for _, code := range group.Recipients() {
		e.deliver(code, models.NewEvent(models.EventNewGroupMessage,
			models.DeliveredMessage{Message: *msg, Self: code == p.SenderCode}))
	}

	return msg, nil
}

// DeliverUpdated re-delivers an edited or tombstoned message to everyone
// who would have received it originally: sender plus the direct receiver,
// or the group's recipient set.
func (e *Engine) DeliverUpdated(msg *models.Message) {
	event := models.NewEvent(models.EventMessageUpdated, msg)
	if msg.IsDirect() {
		e.deliver(msg.SenderCode, event)
		if msg.ReceiverCode != nil {
			e.deliver(*msg.ReceiverCode, event)
		}
		return
	}
	if msg.GroupCode == nil {
		// Unaddressed message, deliver to the sender only.
		e.deliver(msg.SenderCode, event)
		return
	}

	group, err := e.groups.GetGroupByCode(*msg.GroupCode)
	if err != nil {
		e.logger.Warn("Could not resolve group for message update", "group", *msg.GroupCode, "error", err)
		e.deliver(msg.SenderCode, event)
		return
	}
	senderIncluded := false
	for _, code := range group.Recipients() {
		e.deliver(code, event)
		if code == msg.SenderCode {
			senderIncluded = true
		}
	}
	if !senderIncluded {
		// Sender may have left the group since sending.
		e.deliver(msg.SenderCode, event)
	}
}

// Notify pushes event to every listed code that is currently reachable.
// Used for the lightweight contacts/requests/pending/group update pings.
func (e *Engine) Notify(codes []string, event models.Event) {
	for _, code := range codes {
		e.deliver(code, event)
	}
}

// Broadcast pushes event to every connected session.
func (e *Engine) Broadcast(event models.Event) {
	e.Notify(e.registry.Codes(), event)
}
