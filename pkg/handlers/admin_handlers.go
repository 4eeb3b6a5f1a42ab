package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/store"
)

// AdminHandler serves the moderation surface. Every operation requires the
// requesting profile to carry the admin flag; there is no separate admin
// credential.
type AdminHandler struct {
	store  *store.Store
	fanout *fanout.Engine
	logger *slog.Logger
}

func NewAdminHandler(s *store.Store, engine *fanout.Engine, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: s, fanout: engine, logger: logger}
}

// requireAdmin resolves the requester code from the query string and rejects
// the request unless that profile is flagged as an administrator. Returns
// false after writing the error response.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	requester := r.URL.Query().Get("requesterCode")
	if requester == "" {
		writeBadRequest(w, "requesterCode is required")
		return false
	}
	ok, err := h.store.IsAdmin(requester)
	if err != nil {
		writeStoreError(w, err)
		return false
	}
	if !ok {
		writeStoreError(w, store.ErrUnauthorized)
		return false
	}
	return true
}

// ListUsers godoc
// @Summary List all users
// @Description Admin-only projection of every profile: code, username, presence, counts.
// @Tags admin
// @Produce json
// @Param requesterCode query string true "Admin user code"
// @Success 200 {array} models.AdminUserView
// @Failure 403 {object} handlers.errorResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.store.ListUsers()
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes a profile and every trace of it: contact references on
// other profiles, group membership, and message history. Admin accounts
// cannot be deleted.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	code := r.PathValue("code")

	target, err := h.store.GetUserByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if target.IsAdmin {
		writeBadRequest(w, "admin accounts cannot be deleted")
		return
	}

	if err := h.store.DeleteUserCascade(code); err != nil {
		h.logger.Error("Failed to delete user", "code", code, "error", err)
		writeStoreError(w, err)
		return
	}

	h.fanout.Broadcast(models.NewEvent(models.EventUserDeleted,
		models.UserDeletedPayload{DeletedUserCode: code}))
	h.logger.Info("User deleted by admin", "code", code)
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}

// DeleteGroup removes a group and its message history. The recipient set is
// captured before the cascade so the group-deleted event still reaches the
// former members.
func (h *AdminHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	groupCode := r.PathValue("groupCode")

	group, err := h.store.DeleteGroupCascade(groupCode)
	if err != nil {
		h.logger.Error("Failed to delete group", "group", groupCode, "error", err)
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify(group.Recipients(), models.NewEvent(models.EventGroupDeleted,
		models.GroupDeletedPayload{GroupCode: groupCode, GroupName: group.Name}))
	h.logger.Info("Group deleted by admin", "group", groupCode)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Group deleted"})
}

// BanMember godoc
// @Summary Ban a user from a group
// @Description Adds the target to the group's ban list and strips membership; banned users cannot rejoin.
// @Tags admin
// @Accept json
// @Param requesterCode query string true "Admin user code"
// @Param groupCode path string true "Group code"
// @Param body body models.GroupMemberActionRequest true "Target"
// @Success 200 {object} handlers.messageResponse
// @Router /api/admin/groups/{groupCode}/ban [post]
func (h *AdminHandler) BanMember(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	groupCode := r.PathValue("groupCode")

	var req models.GroupMemberActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.TargetCode == "" {
		writeBadRequest(w, "targetCode is required")
		return
	}

	group, err := h.store.GetGroupByCode(groupCode)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.store.BanMember(groupCode, req.TargetCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify(group.Recipients(), models.NewEvent(models.EventGroupUpdated,
		models.GroupUpdatedPayload{GroupCode: groupCode, Action: "member-banned", TargetCode: req.TargetCode}))
	h.fanout.Notify([]string{req.TargetCode}, models.NewEvent(models.EventGroupKicked,
		models.GroupKickedPayload{GroupCode: groupCode, GroupName: group.Name}))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Member banned"})
}
