package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Event is the envelope for every frame on the live channel, in both
// directions. Payload shape depends on Type; inbound payloads are decoded
// into the typed variants below and validated before dispatch.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types.
const (
	EventRegister         = "register"
	EventSendMessage      = "send-message"
	EventSendGroupMessage = "send-group-message"
	EventCallUser         = "call-user"
	EventAnswerCall       = "answer-call"
	EventRejectCall       = "reject-call"
	EventCallBusy         = "call-busy"
	EventEndCall          = "end-call"
	EventIceCandidate     = "ice-candidate"
)

// Outbound event types.
const (
	EventNewMessage      = "new-message"
	EventNewGroupMessage = "new-group-message"
	EventMessageUpdated  = "message-updated"
	EventPresenceChanged = "presence-changed"
	EventIncomingCall    = "incoming-call"
	EventCallAccepted    = "call-accepted"
	EventCallRejected    = "call-rejected"
	EventCallUnavailable = "call-unavailable"
	EventCallEnded       = "call-ended"
	EventContactsUpdated = "contacts-updated"
	EventRequestsUpdated = "requests-updated"
	EventPendingUpdated  = "pending-updated"
	EventGroupUpdated    = "group-updated"
	EventGroupKicked     = "group-kicked"
	EventGroupDeleted    = "group-deleted"
	EventUserDeleted     = "user-deleted"
)

// NewEvent marshals payload into an envelope. A nil payload yields an
// envelope with no payload field (used for the bare notification pings).
func NewEvent(eventType string, payload any) Event {
	if payload == nil {
		return Event{Type: eventType}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload structs are plain data; marshal cannot fail for them.
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Payload: data}
}

var errMissingField = errors.New("missing required field")

type RegisterPayload struct {
	Code string `json:"code"`
}

func (p *RegisterPayload) Validate() error {
	if p.Code == "" {
		return errMissingField
	}
	return nil
}

type SendMessagePayload struct {
	SenderCode   string      `json:"senderCode"`
	ReceiverCode string      `json:"receiverCode"`
	Content      string      `json:"content"`
	Type         MessageType `json:"type,omitempty"`
	FileName     *string     `json:"fileName,omitempty"`
	Caption      *string     `json:"caption,omitempty"`
	ReplyTo      *string     `json:"replyTo,omitempty"`
}

func (p *SendMessagePayload) Validate() error {
	if p.SenderCode == "" || p.ReceiverCode == "" || p.Content == "" {
		return errMissingField
	}
	return nil
}

type SendGroupMessagePayload struct {
	SenderCode string      `json:"senderCode"`
	GroupCode  string      `json:"groupCode"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type,omitempty"`
	FileName   *string     `json:"fileName,omitempty"`
	Caption    *string     `json:"caption,omitempty"`
	ReplyTo    *string     `json:"replyTo,omitempty"`
}

func (p *SendGroupMessagePayload) Validate() error {
	if p.SenderCode == "" || p.GroupCode == "" || p.Content == "" {
		return errMissingField
	}
	return nil
}

type CallUserPayload struct {
	TargetCode string          `json:"targetCode"`
	CallerCode string          `json:"callerCode"`
	Offer      json.RawMessage `json:"offer"`
	CallType   string          `json:"callType,omitempty"`
}

func (p *CallUserPayload) Validate() error {
	if p.TargetCode == "" || p.CallerCode == "" || len(p.Offer) == 0 {
		return errMissingField
	}
	return nil
}

type AnswerCallPayload struct {
	CallerCode    string          `json:"callerCode"`
	ResponderCode string          `json:"responderCode"`
	Answer        json.RawMessage `json:"answer"`
}

func (p *AnswerCallPayload) Validate() error {
	if p.CallerCode == "" || len(p.Answer) == 0 {
		return errMissingField
	}
	return nil
}

type RejectCallPayload struct {
	CallerCode    string `json:"callerCode"`
	ResponderCode string `json:"responderCode"`
}

func (p *RejectCallPayload) Validate() error {
	if p.CallerCode == "" {
		return errMissingField
	}
	return nil
}

type CallBusyPayload struct {
	CallerCode    string `json:"callerCode"`
	ResponderCode string `json:"responderCode"`
}

func (p *CallBusyPayload) Validate() error {
	if p.CallerCode == "" {
		return errMissingField
	}
	return nil
}

type EndCallPayload struct {
	TargetCode string `json:"targetCode"`
	SenderCode string `json:"senderCode"`
	Reason     string `json:"reason,omitempty"`
}

func (p *EndCallPayload) Validate() error {
	if p.TargetCode == "" {
		return errMissingField
	}
	return nil
}

type IceCandidatePayload struct {
	TargetCode string          `json:"targetCode"`
	SenderCode string          `json:"senderCode"`
	Candidate  json.RawMessage `json:"candidate"`
}

func (p *IceCandidatePayload) Validate() error {
	if p.TargetCode == "" || len(p.Candidate) == 0 {
		return errMissingField
	}
	return nil
}

// DeliveredMessage is a stored message plus the per-recipient self tag.
type DeliveredMessage struct {
	Message
	Self bool `json:"self"`
}

type PresenceChangedPayload struct {
	UserCode string    `json:"userCode"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

type IncomingCallPayload struct {
	CallerCode string          `json:"callerCode"`
	CallType   string          `json:"callType"`
	Offer      json.RawMessage `json:"offer"`
}

type CallAcceptedPayload struct {
	ResponderCode string          `json:"responderCode"`
	Answer        json.RawMessage `json:"answer"`
}

type CallRejectedPayload struct {
	ResponderCode string `json:"responderCode"`
}

type CallBusyOutPayload struct {
	ResponderCode string `json:"responderCode"`
}

type CallUnavailablePayload struct {
	TargetCode string `json:"targetCode"`
}

type CallEndedPayload struct {
	SenderCode string `json:"senderCode"`
	Reason     string `json:"reason"`
}

type IceCandidateOutPayload struct {
	SenderCode string          `json:"senderCode"`
	Candidate  json.RawMessage `json:"candidate"`
}

type GroupUpdatedPayload struct {
	GroupCode  string `json:"groupCode"`
	Action     string `json:"action"`
	TargetCode string `json:"targetCode,omitempty"`
}

type GroupKickedPayload struct {
	GroupCode string `json:"groupCode"`
	GroupName string `json:"groupName"`
}

type GroupDeletedPayload struct {
	GroupCode string `json:"groupCode"`
	GroupName string `json:"groupName"`
}

type UserDeletedPayload struct {
	DeletedUserCode string `json:"deletedUserCode"`
}
