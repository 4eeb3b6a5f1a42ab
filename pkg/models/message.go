package models

import (
	"time"
)

// TombstoneContent replaces the content of a deleted message. Once set, the
// message is immutable.
const TombstoneContent = "This message was deleted"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeDocument MessageType = "document"
	MessageTypeArchive  MessageType = "archive"
	MessageTypeOther    MessageType = "other"
)

// ValidMessageType reports whether t is one of the known content tags.
func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio,
		MessageTypeDocument, MessageTypeArchive, MessageTypeOther:
		return true
	}
	return false
}

// Message is addressed to exactly one of ReceiverCode (direct) or GroupCode
// (group), never both and never neither.
type Message struct {
	ID           string      `json:"id" db:"id"`
	SenderCode   string      `json:"senderCode" db:"sender_code"`
	ReceiverCode *string     `json:"receiverCode" db:"receiver_code"`
	GroupCode    *string     `json:"groupCode" db:"group_code"`
	Content      string      `json:"content" db:"content"`
	Type         MessageType `json:"type" db:"type"`
	FileName     *string     `json:"fileName,omitempty" db:"file_name"`
	Caption      *string     `json:"caption,omitempty" db:"caption"`
	ReplyTo      *string     `json:"replyTo,omitempty" db:"reply_to"`
	Deleted      bool        `json:"deleted" db:"deleted"`
	Timestamp    time.Time   `json:"timestamp" db:"sent_at"`
}

// IsDirect reports whether the message belongs to a 1-1 conversation.
func (m *Message) IsDirect() bool {
	return m.ReceiverCode != nil && m.GroupCode == nil
}

type MessageUpdateRequest struct {
	Content string `json:"content"`
}

type MessageDeleteRequest struct {
	DeletedBy string `json:"deletedBy"`
}
