package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/store"
)

type GroupHandler struct {
	store  *store.Store
	fanout *fanout.Engine
	logger *slog.Logger
}

func NewGroupHandler(s *store.Store, engine *fanout.Engine, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{store: s, fanout: engine, logger: logger}
}

// CreateGroup godoc
// @Summary Create a group
// @Description Creates a group with a founding admin and sends invitation direct messages to the listed members.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body models.CreateGroupRequest true "Group"
// @Success 201 {object} models.Group
// @Router /api/groups [post]
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if len(req.Admins) == 0 {
		writeBadRequest(w, "a founding admin is required")
		return
	}

	group := &models.Group{
		Name:    req.Name,
		Icon:    req.Icon,
		Members: req.Members,
		Admins:  req.Admins,
	}
	if err := h.store.CreateGroup(group); err != nil {
		h.logger.Error("Failed to create group", "name", req.Name, "error", err)
		writeStoreError(w, err)
		return
	}

	if req.InvitationMessage != "" {
		h.sendInvitations(group, req.Members)
	}

	writeJSON(w, http.StatusCreated, group)
}

// sendInvitations delivers a direct invitation message from the founding
// admin to every member except the founder. Invitation failures do not
// fail group creation.
func (h *GroupHandler) sendInvitations(group *models.Group, members []string) {
	founder := group.Admins[0]
	founderName := "Unknown"
	if creator, err := h.store.GetUserByCode(founder); err == nil {
		founderName = creator.Username
	}

	content := fmt.Sprintf("You have been invited to join %q by %s. Group code: %s",
		group.Name, founderName, group.Code)

	for _, member := range members {
		if member == founder {
			continue
		}
		if _, err := h.fanout.SendDirect(&models.SendMessagePayload{
			SenderCode:   founder,
			ReceiverCode: member,
			Content:      content,
			Type:         models.MessageTypeText,
		}); err != nil {
			h.logger.Error("Failed to send group invitation", "group", group.Code, "member", member, "error", err)
		}
	}
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.store.GetGroupByCode(r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// UpdateGroup applies group settings changes. Only a group admin may edit.
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.GroupUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	group, err := h.store.GetGroupByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !group.IsGroupAdmin(req.RequesterCode) {
		writeStoreError(w, store.ErrUnauthorized)
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeBadRequest(w, "name cannot be empty")
			return
		}
		req.Name = &trimmed
	}

	updated, err := h.store.UpdateGroup(code, &req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify(updated.Recipients(), models.NewEvent(models.EventGroupUpdated,
		models.GroupUpdatedPayload{GroupCode: code, Action: "settings-changed"}))
	writeJSON(w, http.StatusOK, updated)
}

// GetUserGroups lists the groups recorded on a user's profile.
func (h *GroupHandler) GetUserGroups(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByCode(r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	groups, err := h.store.GetGroupsByCodes(user.Groups)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// JoinGroup godoc
// @Summary Join a group by code
// @Tags groups
// @Accept json
// @Param code path string true "User code"
// @Param body body models.JoinGroupRequest true "Group code"
// @Success 200 {object} models.Group
// @Failure 409 {object} handlers.errorResponse
// @Router /api/users/{code}/join-group [post]
func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if !isFourDigitCode(req.GroupCode) {
		writeBadRequest(w, "valid 4-digit groupCode is required")
		return
	}

	group, err := h.store.JoinGroup(code, req.GroupCode)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	groupCode := r.PathValue("groupCode")

	if err := h.store.LeaveGroup(code, groupCode); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Left group"})
}

// KickMember removes a plain member. Requires a group admin; admins cannot
// be kicked.
func (h *GroupHandler) KickMember(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.GroupMemberActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	group, err := h.store.GetGroupByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !group.IsGroupAdmin(req.RequesterCode) {
		writeStoreError(w, store.ErrUnauthorized)
		return
	}
	if group.IsGroupAdmin(req.TargetCode) {
		writeBadRequest(w, "cannot kick an admin")
		return
	}

	if err := h.store.KickMember(code, req.TargetCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify(group.Recipients(), models.NewEvent(models.EventGroupUpdated,
		models.GroupUpdatedPayload{GroupCode: code, Action: "member-kicked", TargetCode: req.TargetCode}))
	h.fanout.Notify([]string{req.TargetCode}, models.NewEvent(models.EventGroupKicked,
		models.GroupKickedPayload{GroupCode: code, GroupName: group.Name}))

	writeJSON(w, http.StatusOK, messageResponse{Message: "Member kicked"})
}

// MuteMember adds the target to the group's muted set (group admin only).
func (h *GroupHandler) MuteMember(w http.ResponseWriter, r *http.Request) {
	h.memberSetAction(w, r, "muted", h.store.MuteMember)
}

// UnmuteMember removes the target from the group's muted set.
func (h *GroupHandler) UnmuteMember(w http.ResponseWriter, r *http.Request) {
	h.memberSetAction(w, r, "unmuted", h.store.UnmuteMember)
}

func (h *GroupHandler) memberSetAction(w http.ResponseWriter, r *http.Request, action string, apply func(groupCode, targetCode string) error) {
	code := r.PathValue("code")
	var req models.GroupMemberActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.TargetCode == "" {
		writeBadRequest(w, "targetCode is required")
		return
	}

	group, err := h.store.GetGroupByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !group.IsGroupAdmin(req.RequesterCode) {
		writeStoreError(w, store.ErrUnauthorized)
		return
	}

	if err := apply(code, req.TargetCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify(group.Recipients(), models.NewEvent(models.EventGroupUpdated,
		models.GroupUpdatedPayload{GroupCode: code, Action: "member-" + action, TargetCode: req.TargetCode}))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Member " + action})
}
