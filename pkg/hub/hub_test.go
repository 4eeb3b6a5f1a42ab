package hub

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/presence"
	"github.com/mehular0ra/pingme/pkg/signal"
)

type fakeStore struct {
	users map[string]*models.User
}

func (f *fakeStore) SetUserPresence(code string, online bool, at time.Time) error {
	if u, ok := f.users[code]; ok {
		u.IsOnline = online
		u.LastSeen = at
	}
	return nil
}

func (f *fakeStore) GetUserByCode(code string) (*models.User, error) {
	if u, ok := f.users[code]; ok {
		return u, nil
	}
	return nil, errNotFound
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "user not found" }

type fakeMessageStore struct{}

func (fakeMessageStore) SaveMessage(msg *models.Message) error {
	msg.ID = "msg-1"
	return nil
}

type fakeGroupStore struct{}

func (fakeGroupStore) GetGroupByCode(code string) (*models.Group, error) {
	return nil, errNotFound
}

type fakeSession struct {
	events []models.Event
}

func (s *fakeSession) Deliver(event models.Event) bool {
	s.events = append(s.events, event)
	return true
}

func newTestHub(users map[string]*models.User) *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := presence.NewRegistry()
	engine := fanout.NewEngine(registry, fakeMessageStore{}, fakeGroupStore{}, logger)
	relay := signal.NewRelay(registry, logger)
	return NewHub(registry, engine, relay, &fakeStore{users: users}, logger)
}

// newTestClient builds a client without a real socket; Deliver and
// closeSend never touch the connection.
func newTestClient(h *Hub) *Client {
	return &Client{Hub: h, send: make(chan []byte, 256)}
}

func registerEvent(t *testing.T, code string) models.Event {
	t.Helper()
	payload, err := json.Marshal(models.RegisterPayload{Code: code})
	if err != nil {
		t.Fatal(err)
	}
	return models.Event{Type: models.EventRegister, Payload: payload}
}

func waitPresenceWrite(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case online := <-ch:
		return online
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for presence write")
		return false
	}
}

func TestRegisterBindsSession(t *testing.T) {
	h := newTestHub(map[string]*models.User{
		"1234": {Code: "1234"},
	})
	writes := make(chan bool, 1)
	h.OnPresenceWrite = func(code string, online bool) { writes <- online }

	client := newTestClient(h)
	h.dispatch(client, registerEvent(t, "1234"))

	if client.UserCode != "1234" {
		t.Errorf("client.UserCode = %q, want 1234", client.UserCode)
	}
	if _, ok := h.Registry.Lookup("1234"); !ok {
		t.Error("session not bound after register")
	}
	if online := waitPresenceWrite(t, writes); !online {
		t.Error("register wrote presence online=false")
	}
}

func TestRegisterNotifiesOnlineContacts(t *testing.T) {
	h := newTestHub(map[string]*models.User{
		"1234": {Code: "1234", Contacts: []string{"5678", "9012"}},
	})
	contact := &fakeSession{}
	h.Registry.Bind("5678", contact)

	client := newTestClient(h)
	h.dispatch(client, registerEvent(t, "1234"))

	if len(contact.events) != 1 {
		t.Fatalf("contact got %d events, want 1", len(contact.events))
	}
	if contact.events[0].Type != models.EventPresenceChanged {
		t.Errorf("event type = %q, want %q", contact.events[0].Type, models.EventPresenceChanged)
	}
	var p models.PresenceChangedPayload
	if err := json.Unmarshal(contact.events[0].Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.UserCode != "1234" || !p.IsOnline {
		t.Errorf("payload = %+v, want userCode 1234 online", p)
	}
}

func TestDisconnectUnbindsAndNotifies(t *testing.T) {
	h := newTestHub(map[string]*models.User{
		"1234": {Code: "1234", Contacts: []string{"5678"}},
	})
	writes := make(chan bool, 2)
	h.OnPresenceWrite = func(code string, online bool) { writes <- online }

	contact := &fakeSession{}
	h.Registry.Bind("5678", contact)

	client := newTestClient(h)
	h.dispatch(client, registerEvent(t, "1234"))
	waitPresenceWrite(t, writes)

	h.handleDisconnect(client)

	if _, ok := h.Registry.Lookup("1234"); ok {
		t.Error("session still bound after disconnect")
	}
	if online := waitPresenceWrite(t, writes); online {
		t.Error("disconnect wrote presence online=true")
	}

	if len(contact.events) != 2 {
		t.Fatalf("contact got %d events, want online + offline", len(contact.events))
	}
	var p models.PresenceChangedPayload
	if err := json.Unmarshal(contact.events[1].Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.IsOnline {
		t.Error("second presence event still reports online")
	}
}

func TestDisconnectBeforeRegisterIsSilent(t *testing.T) {
	h := newTestHub(nil)
	h.OnPresenceWrite = func(code string, online bool) {
		t.Errorf("unexpected presence write for %s", code)
	}

	client := newTestClient(h)
	h.handleDisconnect(client)

	// closeSend must be idempotent for the double-disconnect case.
	h.handleDisconnect(client)
}

// A reconnect replaces the old session. When the old connection's teardown
// arrives later it must not mark the freshly registered user offline.
func TestStaleDisconnectKeepsNewSession(t *testing.T) {
	h := newTestHub(map[string]*models.User{
		"1234": {Code: "1234"},
	})
	writes := make(chan bool, 4)
	h.OnPresenceWrite = func(code string, online bool) { writes <- online }

	old := newTestClient(h)
	h.dispatch(old, registerEvent(t, "1234"))
	waitPresenceWrite(t, writes)

	fresh := newTestClient(h)
	h.dispatch(fresh, registerEvent(t, "1234"))
	waitPresenceWrite(t, writes)

	h.handleDisconnect(old)

	got, ok := h.Registry.Lookup("1234")
	if !ok {
		t.Fatal("fresh session was unbound by the stale disconnect")
	}
	if got != presence.Session(fresh) {
		t.Error("registry no longer points at the fresh session")
	}

	select {
	case online := <-writes:
		t.Errorf("stale disconnect wrote presence online=%v", online)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatchDropsMalformedRegister(t *testing.T) {
	h := newTestHub(nil)
	client := newTestClient(h)

	h.dispatch(client, models.Event{Type: models.EventRegister, Payload: json.RawMessage(`{"code":""}`)})

	if client.UserCode != "" {
		t.Error("client was registered from an invalid payload")
	}
	if h.Registry.Len() != 0 {
		t.Error("registry gained a binding from an invalid payload")
	}
}

func TestDispatchUnknownEventType(t *testing.T) {
	h := newTestHub(nil)
	client := newTestClient(h)

	// Must log and move on, not panic.
	h.dispatch(client, models.Event{Type: "no-such-event"})
}

func TestDispatchRoutesDirectMessage(t *testing.T) {
	h := newTestHub(nil)
	sender := &fakeSession{}
	receiver := &fakeSession{}
	h.Registry.Bind("1111", sender)
	h.Registry.Bind("2222", receiver)

	payload, _ := json.Marshal(models.SendMessagePayload{
		SenderCode:   "1111",
		ReceiverCode: "2222",
		Content:      "hello",
	})
	h.dispatch(newTestClient(h), models.Event{Type: models.EventSendMessage, Payload: payload})

	if len(receiver.events) != 1 || receiver.events[0].Type != models.EventNewMessage {
		t.Fatalf("receiver events = %v, want one new-message", receiver.events)
	}
	if len(sender.events) != 1 {
		t.Error("sender did not get its own copy")
	}
}

func TestDispatchRoutesCallSignaling(t *testing.T) {
	h := newTestHub(nil)
	callee := &fakeSession{}
	h.Registry.Bind("2222", callee)

	caller := newTestClient(h)
	payload, _ := json.Marshal(models.CallUserPayload{
		TargetCode: "2222",
		CallerCode: "1111",
		Offer:      json.RawMessage(`{"sdp":"x"}`),
	})
	h.dispatch(caller, models.Event{Type: models.EventCallUser, Payload: payload})

	if len(callee.events) != 1 || callee.events[0].Type != models.EventIncomingCall {
		t.Fatalf("callee events = %v, want one incoming-call", callee.events)
	}
}
