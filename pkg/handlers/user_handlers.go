package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/store"
)

type UserHandler struct {
	store  *store.Store
	fanout *fanout.Engine
	logger *slog.Logger

	globalGroupCode string

	// AfterBackfill, when set, is invoked after the background global-group
	// backfill for a freshly created user finishes. Tests hook this.
	AfterBackfill func(code string)
}

func NewUserHandler(s *store.Store, engine *fanout.Engine, globalGroupCode string, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: s, fanout: engine, globalGroupCode: globalGroupCode, logger: logger}
}

// CreateUser godoc
// @Summary Create a profile
// @Description Creates a user under a fresh 4-digit code and enrolls it into the global group in the background.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.CreateUserRequest true "Profile"
// @Success 201 {object} models.User
// @Router /api/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeBadRequest(w, "username is required")
		return
	}

	user := &models.User{
		Username:       req.Username,
		ProfilePicture: req.ProfilePicture,
		DeviceID:       req.DeviceID,
		IsDeviceLocked: req.IsDeviceLocked,
	}
	if err := h.store.CreateUser(user); err != nil {
		h.logger.Error("Failed to create user", "username", req.Username, "error", err)
		writeStoreError(w, err)
		return
	}

	// Respond first; global-group enrollment must not block creation.
	writeJSON(w, http.StatusCreated, user)

	code := user.Code
	go func() {
		if err := h.store.AddUserToGroup(code, h.globalGroupCode); err != nil {
			h.logger.Error("Failed to add user to global group", "code", code, "error", err)
		}
		if h.AfterBackfill != nil {
			h.AfterBackfill(code)
		}
	}()
}

// GetUser godoc
// @Summary Get a profile by code
// @Tags users
// @Produce json
// @Param code path string true "User code"
// @Success 200 {object} models.User
// @Failure 404 {object} handlers.errorResponse
// @Router /api/users/{code} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByCode(r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserByDevice restores a device-locked profile by its device token.
func (h *UserHandler) GetUserByDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := strings.TrimSpace(r.PathValue("deviceId"))
	if deviceID == "" {
		writeBadRequest(w, "deviceId is required")
		return
	}
	user, err := h.store.GetUserByDevice(deviceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetMostRecentUser returns the most recently used profile for automatic
// restoration.
func (h *UserHandler) GetMostRecentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetMostRecentUser()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	user, err := h.store.UpdateUser(r.PathValue("code"), &req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) TouchLastUsed(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TouchLastUsed(r.PathValue("code")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Last used timestamp updated"})
}

// SetPassword godoc
// @Summary Set or change the profile password
// @Tags users
// @Accept json
// @Param code path string true "User code"
// @Param body body models.SetPasswordRequest true "Password"
// @Success 200 {object} handlers.messageResponse
// @Router /api/users/{code}/password [post]
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Password) < 4 {
		writeBadRequest(w, "password must be at least 4 characters")
		return
	}
	if err := h.store.SetUserPassword(r.PathValue("code"), req.Password); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password set successfully"})
}

// Restore returns the profile after a password check. Profiles without a
// password restore freely.
func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req models.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	user, err := h.store.VerifyUserPassword(r.PathValue("code"), req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect password"})
			return
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetPresence serves the durable best-effort presence mirror, preferring
// the Redis cache over a database read.
func (h *UserHandler) GetPresence(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	cached, err := h.store.GetCachedPresence(code)
	if err != nil {
		h.logger.Warn("Presence cache read failed", "code", code, "error", err)
	}
	if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	user, err := h.store.GetUserByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserPresence{
		UserCode: user.Code,
		IsOnline: user.IsOnline,
		LastSeen: user.LastSeen,
	})
}

func (h *UserHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	h.serveCodeList(w, r, func(u *models.User) []string { return u.Contacts })
}

func (h *UserHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	h.serveCodeList(w, r, func(u *models.User) []string { return u.Pending })
}

func (h *UserHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	h.serveCodeList(w, r, func(u *models.User) []string { return u.Requests })
}

func (h *UserHandler) serveCodeList(w http.ResponseWriter, r *http.Request, pick func(*models.User) []string) {
	user, err := h.store.GetUserByCode(r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	users, err := h.store.GetUsersByCodes(pick(user))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SendRequest godoc
// @Summary Send a contact request
// @Tags contacts
// @Accept json
// @Param code path string true "Requester code"
// @Param body body models.ContactRequest true "Target"
// @Success 200 {object} handlers.messageResponse
// @Failure 409 {object} handlers.errorResponse
// @Router /api/users/{code}/send-request [post]
func (h *UserHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ContactCode == "" {
		writeBadRequest(w, "contactCode is required")
		return
	}

	if err := h.store.SendContactRequest(code, req.ContactCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify([]string{req.ContactCode}, models.NewEvent(models.EventRequestsUpdated, nil))
	h.fanout.Notify([]string{code}, models.NewEvent(models.EventPendingUpdated, nil))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Request sent"})
}

func (h *UserHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RequesterCode == "" {
		writeBadRequest(w, "requesterCode is required")
		return
	}

	if err := h.store.AcceptContactRequest(code, req.RequesterCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify([]string{code}, models.NewEvent(models.EventRequestsUpdated, nil))
	h.fanout.Notify([]string{req.RequesterCode}, models.NewEvent(models.EventPendingUpdated, nil))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Request accepted"})
}

func (h *UserHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RequesterCode == "" {
		writeBadRequest(w, "requesterCode is required")
		return
	}

	if err := h.store.DeclineContactRequest(code, req.RequesterCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify([]string{code}, models.NewEvent(models.EventRequestsUpdated, nil))
	h.fanout.Notify([]string{req.RequesterCode}, models.NewEvent(models.EventPendingUpdated, nil))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Request declined"})
}

func (h *UserHandler) CancelPending(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ContactCode == "" {
		writeBadRequest(w, "contactCode is required")
		return
	}

	if err := h.store.CancelPendingRequest(code, req.ContactCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify([]string{code}, models.NewEvent(models.EventPendingUpdated, nil))
	h.fanout.Notify([]string{req.ContactCode}, models.NewEvent(models.EventRequestsUpdated, nil))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Pending request cancelled"})
}

// RemoveContact severs the contact edge on both sides and pings both users.
func (h *UserHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ContactCode == "" {
		writeBadRequest(w, "contactCode is required")
		return
	}

	if err := h.store.RemoveContact(code, req.ContactCode); err != nil {
		writeStoreError(w, err)
		return
	}

	h.fanout.Notify([]string{code, req.ContactCode}, models.NewEvent(models.EventContactsUpdated, nil))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Contact removed"})
}
