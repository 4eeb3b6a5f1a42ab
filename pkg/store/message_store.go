package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mehular0ra/pingme/pkg/models"
)

const messageColumns = `id, sender_code, receiver_code, group_code, content,
	type, file_name, caption, reply_to, deleted, sent_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderCode, &m.ReceiverCode, &m.GroupCode, &m.Content,
		&m.Type, &m.FileName, &m.Caption, &m.ReplyTo, &m.Deleted, &m.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMessage assigns the id and timestamp and persists the message. The
// exactly-one-of receiver/group addressing rule is enforced here in
// addition to the table constraint.
func (s *Store) SaveMessage(msg *models.Message) error {
	if (msg.ReceiverCode == nil) == (msg.GroupCode == nil) {
		return fmt.Errorf("%w: message must target exactly one of receiver or group", ErrConflict)
	}
	if msg.Type == "" {
		msg.Type = models.MessageTypeText
	}
	if !models.ValidMessageType(msg.Type) {
		msg.Type = models.MessageTypeOther
	}

	msg.ID = uuid.New().String()
	msg.Timestamp = time.Now()

	_, err := s.DB.Exec(`
		INSERT INTO messages (id, sender_code, receiver_code, group_code, content, type, file_name, caption, reply_to, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, msg.ID, msg.SenderCode, msg.ReceiverCode, msg.GroupCode, msg.Content,
		msg.Type, msg.FileName, msg.Caption, msg.ReplyTo, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) GetMessage(id string) (*models.Message, error) {
	row := s.DB.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	return scanMessage(row)
}

// GetConversation returns the full 1-1 history between two users in send
// order.
func (s *Store) GetConversation(userA, userB string) ([]models.Message, error) {
	rows, err := s.DB.Query(`
		SELECT `+messageColumns+` FROM messages
		WHERE group_code IS NULL
		AND ((sender_code = $1 AND receiver_code = $2) OR (sender_code = $2 AND receiver_code = $1))
		ORDER BY sent_at
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// GetGroupConversation returns the full group history in send order.
func (s *Store) GetGroupConversation(groupCode string) ([]models.Message, error) {
	rows, err := s.DB.Query(`
		SELECT `+messageColumns+` FROM messages
		WHERE group_code = $1
		ORDER BY sent_at
	`, groupCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// checkEditable rejects edits to a tombstoned message. Deletion is
// permanent, so once the flag is set no content update may pass.
func checkEditable(msg *models.Message) error {
	if msg.Deleted {
		return ErrDeleted
	}
	return nil
}

// checkDeletableBy enforces that only the original sender may delete.
func checkDeletableBy(msg *models.Message, deletedBy string) error {
	if msg.SenderCode != deletedBy {
		return fmt.Errorf("%w: only the sender may delete a message", ErrUnauthorized)
	}
	return nil
}

// UpdateMessageContent edits a message in place. A tombstoned message is
// immutable and the edit is rejected.
func (s *Store) UpdateMessageContent(id, content string) (*models.Message, error) {
	msg, err := s.GetMessage(id)
	if err != nil {
		return nil, err
	}
	if err := checkEditable(msg); err != nil {
		return nil, err
	}

	if _, err := s.DB.Exec(`UPDATE messages SET content = $2 WHERE id = $1`, id, content); err != nil {
		return nil, err
	}
	msg.Content = content
	return msg, nil
}

// MarkMessageDeleted soft-deletes a message: the deleted flag is set and
// the content is replaced with the tombstone string, permanently. Only the
// original sender may delete.
func (s *Store) MarkMessageDeleted(id, deletedBy string) (*models.Message, error) {
	msg, err := s.GetMessage(id)
	if err != nil {
		return nil, err
	}
	if err := checkDeletableBy(msg, deletedBy); err != nil {
		return nil, err
	}

	if _, err := s.DB.Exec(
		`UPDATE messages SET deleted = TRUE, content = $2 WHERE id = $1`,
		id, models.TombstoneContent); err != nil {
		return nil, err
	}
	msg.Deleted = true
	msg.Content = models.TombstoneContent
	return msg, nil
}
