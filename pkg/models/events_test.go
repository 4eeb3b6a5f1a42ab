package models

import (
	"encoding/json"
	"testing"
)

func TestNewEventNilPayloadOmitted(t *testing.T) {
	event := NewEvent(EventContactsUpdated, nil)
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"contacts-updated"}` {
		t.Errorf("marshaled event = %s, want bare envelope", data)
	}
}

func TestNewEventCarriesPayload(t *testing.T) {
	event := NewEvent(EventPresenceChanged, PresenceChangedPayload{UserCode: "1234", IsOnline: true})
	var p PresenceChangedPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.UserCode != "1234" || !p.IsOnline {
		t.Errorf("payload round-trip = %+v", p)
	}
}

func TestInboundPayloadValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload interface{ Validate() error }
		valid   bool
	}{
		{"register ok", &RegisterPayload{Code: "1234"}, true},
		{"register empty", &RegisterPayload{}, false},
		{"direct ok", &SendMessagePayload{SenderCode: "1", ReceiverCode: "2", Content: "x"}, true},
		{"direct no content", &SendMessagePayload{SenderCode: "1", ReceiverCode: "2"}, false},
		{"direct no receiver", &SendMessagePayload{SenderCode: "1", Content: "x"}, false},
		{"group ok", &SendGroupMessagePayload{SenderCode: "1", GroupCode: "9", Content: "x"}, true},
		{"group no group", &SendGroupMessagePayload{SenderCode: "1", Content: "x"}, false},
		{"call ok", &CallUserPayload{TargetCode: "2", CallerCode: "1", Offer: json.RawMessage(`{}`)}, true},
		{"call no offer", &CallUserPayload{TargetCode: "2", CallerCode: "1"}, false},
		{"answer ok", &AnswerCallPayload{CallerCode: "1", Answer: json.RawMessage(`{}`)}, true},
		{"answer no answer", &AnswerCallPayload{CallerCode: "1"}, false},
		{"end ok", &EndCallPayload{TargetCode: "2"}, true},
		{"end no target", &EndCallPayload{}, false},
		{"ice ok", &IceCandidatePayload{TargetCode: "2", Candidate: json.RawMessage(`{}`)}, true},
		{"ice no candidate", &IceCandidatePayload{TargetCode: "2"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidMessageType(t *testing.T) {
	for _, mt := range []MessageType{MessageTypeText, MessageTypeImage, MessageTypeVideo,
		MessageTypeAudio, MessageTypeDocument, MessageTypeArchive, MessageTypeOther} {
		if !ValidMessageType(mt) {
			t.Errorf("ValidMessageType(%q) = false", mt)
		}
	}
	if ValidMessageType("gif") {
		t.Error(`ValidMessageType("gif") = true, want false`)
	}
}

func TestIsDirect(t *testing.T) {
	receiver := "2222"
	group := "9001"
	direct := &Message{SenderCode: "1111", ReceiverCode: &receiver}
	if !direct.IsDirect() {
		t.Error("message with receiver reported as not direct")
	}
	grouped := &Message{SenderCode: "1111", GroupCode: &group}
	if grouped.IsDirect() {
		t.Error("group message reported as direct")
	}
}
