package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/store"
)

type MessageHandler struct {
	store  *store.Store
	fanout *fanout.Engine
	logger *slog.Logger
}

func NewMessageHandler(s *store.Store, engine *fanout.Engine, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{store: s, fanout: engine, logger: logger}
}

// GetConversation godoc
// @Summary Direct conversation history
// @Description Returns all direct messages between two users, oldest first.
// @Tags messages
// @Produce json
// @Param user1 path string true "First user code"
// @Param user2 path string true "Second user code"
// @Success 200 {array} models.Message
// @Router /api/messages/{user1}/{user2} [get]
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.GetConversation(r.PathValue("user1"), r.PathValue("user2"))
	if err != nil {
		h.logger.Error("Failed to load conversation", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) GetGroupConversation(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.GetGroupConversation(r.PathValue("groupCode"))
	if err != nil {
		h.logger.Error("Failed to load group conversation", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// EditMessage replaces a message's content. Editing a deleted message is
// rejected; live recipients get a message-updated event.
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req models.MessageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeBadRequest(w, "content cannot be empty")
		return
	}

	msg, err := h.store.UpdateMessageContent(id, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.DeliverUpdated(msg)
	writeJSON(w, http.StatusOK, msg)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Tombstones a message. Only the sender may delete; the content is replaced, the row stays.
// @Tags messages
// @Accept json
// @Param id path string true "Message ID"
// @Param body body models.MessageDeleteRequest true "Deleting user"
// @Success 200 {object} models.Message
// @Failure 403 {object} handlers.errorResponse
// @Router /api/messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req models.MessageDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.DeletedBy == "" {
		writeBadRequest(w, "deletedBy is required")
		return
	}

	msg, err := h.store.MarkMessageDeleted(id, req.DeletedBy)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.DeliverUpdated(msg)
	writeJSON(w, http.StatusOK, msg)
}
