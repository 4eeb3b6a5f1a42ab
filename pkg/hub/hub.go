// Package hub owns the live connection lifecycle: it accepts WebSocket
// clients, binds them to user codes in the presence registry on register,
// and dispatches every inbound live event to the fan-out engine or the
// call signaling relay. Events are processed one at a time by a single run
// loop; durable writes triggered by presence changes run in the background
// and are best-effort.
package hub

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/presence"
	"github.com/mehular0ra/pingme/pkg/signal"
)

// Store is the slice of the persistence collaborator the lifecycle manager
// needs: the durable presence mirror and the contact set.
type Store interface {
	SetUserPresence(code string, online bool, at time.Time) error
	GetUserByCode(code string) (*models.User, error)
}

type inbound struct {
	client *Client
	event  models.Event
}

type Hub struct {
	Registry *presence.Registry
	Fanout   *fanout.Engine
	Relay    *signal.Relay

	store  Store
	logger *slog.Logger

	Register   chan *Client
	Unregister chan *Client
	Inbound    chan inbound

	// OnPresenceWrite, when set, is invoked after each background durable
	// presence write finishes. The run loop never waits on these writes;
	// tests hook this to observe them.
	OnPresenceWrite func(code string, online bool)
}

func NewHub(registry *presence.Registry, engine *fanout.Engine, relay *signal.Relay, store Store, logger *slog.Logger) *Hub {
	return &Hub{
		Registry:   registry,
		Fanout:     engine,
		Relay:      relay,
		store:      store,
		logger:     logger,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan inbound),
	}
}

// Run processes connection lifecycle and inbound events until the hub
// channels are abandoned. Each event runs to completion before the next is
// picked up.
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.logger.Debug("Client connected", "remote", client.remoteAddr)

		case client := <-h.Unregister:
			h.handleDisconnect(client)

		case in := <-h.Inbound:
			h.dispatch(in.client, in.event)
		}
	}
}

func (h *Hub) dispatch(client *Client, event models.Event) {
	switch event.Type {
	case models.EventRegister:
		var p models.RegisterPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.handleRegister(client, &p)

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		if _, err := h.Fanout.SendDirect(&p); err != nil {
			h.logger.Error("Direct message failed", "sender", p.SenderCode, "error", err)
		}

	case models.EventSendGroupMessage:
		var p models.SendGroupMessagePayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		if _, err := h.Fanout.SendGroup(&p); err != nil {
			h.logger.Error("Group message failed", "sender", p.SenderCode, "group", p.GroupCode, "error", err)
		}

	case models.EventCallUser:
		var p models.CallUserPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.CallUser(client, &p)

	case models.EventAnswerCall:
		var p models.AnswerCallPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.AnswerCall(&p)

	case models.EventRejectCall:
		var p models.RejectCallPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.RejectCall(&p)

	case models.EventCallBusy:
		var p models.CallBusyPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.CallBusy(&p)

	case models.EventEndCall:
		var p models.EndCallPayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.EndCall(client, &p)

	case models.EventIceCandidate:
		var p models.IceCandidatePayload
		if !decodePayload(h.logger, event, &p) {
			return
		}
		h.Relay.IceCandidate(&p)

	default:
		h.logger.Warn("Unknown event type", "type", event.Type)
	}
}

type validator interface {
	Validate() error
}

// decodePayload unmarshals and validates an inbound payload at the
// boundary. Malformed frames are logged and dropped; the live channel has
// no error return path.
func decodePayload(logger *slog.Logger, event models.Event, dst validator) bool {
	if err := json.Unmarshal(event.Payload, dst); err != nil {
		logger.Warn("Malformed event payload", "type", event.Type, "error", err)
		return false
	}
	if err := dst.Validate(); err != nil {
		logger.Warn("Invalid event payload", "type", event.Type, "error", err)
		return false
	}
	return true
}

// handleRegister binds the session to its user code. Rebinding an already
// bound code replaces the previous session: last register wins.
func (h *Hub) handleRegister(client *Client, p *models.RegisterPayload) {
	h.Registry.Bind(p.Code, client)
	client.UserCode = p.Code

	now := time.Now()
	go h.writePresence(p.Code, true, now)
	h.notifyContacts(p.Code, true, now)

	h.logger.Info("Client registered", "code", p.Code)
}

// handleDisconnect unbinds the session if it is still the current one for
// its code. A session that never registered, or was superseded by a later
// register, unwinds silently.
func (h *Hub) handleDisconnect(client *Client) {
	code, ok := h.Registry.Unbind(client)
	if ok {
		now := time.Now()
		go h.writePresence(code, false, now)
		h.notifyContacts(code, false, now)
		h.logger.Info("Client unregistered", "code", code)
	}
	client.closeSend()
}

// writePresence mirrors reachability into the durable store. Failures are
// logged and swallowed; the registry already reflects the truth.
func (h *Hub) writePresence(code string, online bool, at time.Time) {
	if err := h.store.SetUserPresence(code, online, at); err != nil {
		h.logger.Error("Failed to write presence", "code", code, "online", online, "error", err)
	}
	if h.OnPresenceWrite != nil {
		h.OnPresenceWrite(code, online)
	}
}

// notifyContacts delivers presence-changed to every contact of code that
// is currently reachable. Offline contacts get nothing; there is no queued
// delivery.
func (h *Hub) notifyContacts(code string, online bool, at time.Time) {
	user, err := h.store.GetUserByCode(code)
	if err != nil {
		h.logger.Error("Failed to load contacts for presence notify", "code", code, "error", err)
		return
	}

	event := models.NewEvent(models.EventPresenceChanged, models.PresenceChangedPayload{
		UserCode: code,
		IsOnline: online,
		LastSeen: at,
	})
	h.Fanout.Notify(user.Contacts, event)
}
