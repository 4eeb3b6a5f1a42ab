package signal

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/presence"
)

type recordedSession struct {
	events []models.Event
}

func (s *recordedSession) Deliver(event models.Event) bool {
	s.events = append(s.events, event)
	return true
}

func newTestRelay() (*Relay, *presence.Registry) {
	registry := presence.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRelay(registry, logger), registry
}

func rawJSON(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestCallUserRelaysOffer(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	callee := &recordedSession{}
	registry.Bind("1111", caller)
	registry.Bind("2222", callee)

	relay.CallUser(caller, &models.CallUserPayload{
		TargetCode: "2222",
		CallerCode: "1111",
		Offer:      rawJSON(`{"sdp":"offer"}`),
		CallType:   "video",
	})

	if len(callee.events) != 1 {
		t.Fatalf("callee got %d events, want 1", len(callee.events))
	}
	if callee.events[0].Type != models.EventIncomingCall {
		t.Errorf("event type = %q, want %q", callee.events[0].Type, models.EventIncomingCall)
	}
	var p models.IncomingCallPayload
	if err := json.Unmarshal(callee.events[0].Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.CallerCode != "1111" || p.CallType != "video" {
		t.Errorf("payload = %+v, want caller 1111 type video", p)
	}
	if len(caller.events) != 0 {
		t.Error("caller received an event on a successful call setup")
	}
}

func TestCallUserUnreachableTargetNotifiesCallerOnly(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	registry.Bind("1111", caller)

	relay.CallUser(caller, &models.CallUserPayload{
		TargetCode: "2222",
		CallerCode: "1111",
		Offer:      rawJSON(`{}`),
	})

	if len(caller.events) != 1 {
		t.Fatalf("caller got %d events, want 1", len(caller.events))
	}
	if caller.events[0].Type != models.EventCallUnavailable {
		t.Errorf("event type = %q, want %q", caller.events[0].Type, models.EventCallUnavailable)
	}
}

func TestCallUserDefaultsToAudio(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	callee := &recordedSession{}
	registry.Bind("1111", caller)
	registry.Bind("2222", callee)

	relay.CallUser(caller, &models.CallUserPayload{
		TargetCode: "2222",
		CallerCode: "1111",
		Offer:      rawJSON(`{}`),
		CallType:   "hologram",
	})

	var p models.IncomingCallPayload
	if err := json.Unmarshal(callee.events[0].Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.CallType != "audio" {
		t.Errorf("callType = %q, want audio", p.CallType)
	}
}

func TestAnswerCallRelaysToCaller(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	registry.Bind("1111", caller)

	relay.AnswerCall(&models.AnswerCallPayload{
		CallerCode:    "1111",
		ResponderCode: "2222",
		Answer:        rawJSON(`{"sdp":"answer"}`),
	})

	if len(caller.events) != 1 {
		t.Fatalf("caller got %d events, want 1", len(caller.events))
	}
	if caller.events[0].Type != models.EventCallAccepted {
		t.Errorf("event type = %q, want %q", caller.events[0].Type, models.EventCallAccepted)
	}
}

func TestAnswerCallCallerGoneIsDropped(t *testing.T) {
	relay, _ := newTestRelay()

	// Must not panic or block when the caller vanished mid-ring.
	relay.AnswerCall(&models.AnswerCallPayload{
		CallerCode:    "1111",
		ResponderCode: "2222",
		Answer:        rawJSON(`{}`),
	})
}

func TestRejectCall(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	registry.Bind("1111", caller)

	relay.RejectCall(&models.RejectCallPayload{CallerCode: "1111", ResponderCode: "2222"})

	if len(caller.events) != 1 || caller.events[0].Type != models.EventCallRejected {
		t.Fatalf("caller events = %v, want one call-rejected", caller.events)
	}
}

func TestCallBusy(t *testing.T) {
	relay, registry := newTestRelay()
	caller := &recordedSession{}
	registry.Bind("1111", caller)

	relay.CallBusy(&models.CallBusyPayload{CallerCode: "1111", ResponderCode: "2222"})

	if len(caller.events) != 1 || caller.events[0].Type != models.EventCallBusy {
		t.Fatalf("caller events = %v, want one call-busy", caller.events)
	}
}

func TestIceCandidateRelayedVerbatim(t *testing.T) {
	relay, registry := newTestRelay()
	target := &recordedSession{}
	registry.Bind("2222", target)

	candidate := `{"candidate":"candidate:0 1 UDP 2122252543 192.0.2.1 54321 typ host"}`
	relay.IceCandidate(&models.IceCandidatePayload{
		TargetCode: "2222",
		SenderCode: "1111",
		Candidate:  rawJSON(candidate),
	})

	if len(target.events) != 1 {
		t.Fatalf("target got %d events, want 1", len(target.events))
	}
	var p models.IceCandidateOutPayload
	if err := json.Unmarshal(target.events[0].Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(p.Candidate) != candidate {
		t.Errorf("candidate = %s, want %s", p.Candidate, candidate)
	}
}

func TestIceCandidateUnreachableTargetDroppedSilently(t *testing.T) {
	relay, registry := newTestRelay()
	sender := &recordedSession{}
	registry.Bind("1111", sender)

	relay.IceCandidate(&models.IceCandidatePayload{
		TargetCode: "2222",
		SenderCode: "1111",
		Candidate:  rawJSON(`{}`),
	})

	if len(sender.events) != 0 {
		t.Error("sender was notified about a dropped candidate")
	}
}

func TestEndCallEchoesToSender(t *testing.T) {
	relay, registry := newTestRelay()
	sender := &recordedSession{}
	target := &recordedSession{}
	registry.Bind("1111", sender)
	registry.Bind("2222", target)

	relay.EndCall(sender, &models.EndCallPayload{TargetCode: "2222", SenderCode: "1111"})

	if len(target.events) != 1 || target.events[0].Type != models.EventCallEnded {
		t.Fatalf("target events = %v, want one call-ended", target.events)
	}
	if len(sender.events) != 1 || sender.events[0].Type != models.EventCallEnded {
		t.Fatalf("sender events = %v, want one call-ended echo", sender.events)
	}

	var p models.CallEndedPayload
	if err := json.Unmarshal(sender.events[0].Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Reason != "ended" {
		t.Errorf("reason = %q, want default %q", p.Reason, "ended")
	}
}

func TestEndCallTargetGoneStillEchoes(t *testing.T) {
	relay, registry := newTestRelay()
	sender := &recordedSession{}
	registry.Bind("1111", sender)

	relay.EndCall(sender, &models.EndCallPayload{TargetCode: "2222", SenderCode: "1111", Reason: "hangup"})

	if len(sender.events) != 1 {
		t.Fatalf("sender got %d events, want 1 echo", len(sender.events))
	}
	var p models.CallEndedPayload
	if err := json.Unmarshal(sender.events[0].Payload, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Reason != "hangup" {
		t.Errorf("reason = %q, want %q", p.Reason, "hangup")
	}
}
