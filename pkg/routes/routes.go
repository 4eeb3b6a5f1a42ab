package routes

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/handlers"
	"github.com/mehular0ra/pingme/pkg/hub"
	"github.com/mehular0ra/pingme/pkg/store"
)

// NewRouter wires every HTTP endpoint. globalGroupCode is the group new
// profiles are backfilled into after creation.
func NewRouter(h *hub.Hub, s *store.Store, engine *fanout.Engine, globalGroupCode string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	userHandler := handlers.NewUserHandler(s, engine, globalGroupCode, logger)
	groupHandler := handlers.NewGroupHandler(s, engine, logger)
	messageHandler := handlers.NewMessageHandler(s, engine, logger)
	adminHandler := handlers.NewAdminHandler(s, engine, logger)

	// WebSocket endpoint
	mux.HandleFunc("/ws", handlers.HandleWS(h, logger))

	// User endpoints
	mux.HandleFunc("POST /api/users", userHandler.CreateUser)
	mux.HandleFunc("GET /api/users/recent", userHandler.GetMostRecentUser)
	mux.HandleFunc("GET /api/users/by-device/{deviceId}", userHandler.GetUserByDevice)
	mux.HandleFunc("GET /api/users/{code}", userHandler.GetUser)
	mux.HandleFunc("PATCH /api/users/{code}", userHandler.UpdateUser)
	mux.HandleFunc("POST /api/users/{code}/touch", userHandler.TouchLastUsed)
	mux.HandleFunc("POST /api/users/{code}/password", userHandler.SetPassword)
	mux.HandleFunc("POST /api/users/{code}/restore", userHandler.Restore)
	mux.HandleFunc("GET /api/users/{code}/presence", userHandler.GetPresence)

	// Contact handshake endpoints
	mux.HandleFunc("GET /api/users/{code}/contacts", userHandler.GetContacts)
	mux.HandleFunc("GET /api/users/{code}/pending", userHandler.GetPending)
	mux.HandleFunc("GET /api/users/{code}/requests", userHandler.GetRequests)
	mux.HandleFunc("POST /api/users/{code}/send-request", userHandler.SendRequest)
	mux.HandleFunc("POST /api/users/{code}/accept-request", userHandler.AcceptRequest)
	mux.HandleFunc("POST /api/users/{code}/decline-request", userHandler.DeclineRequest)
	mux.HandleFunc("POST /api/users/{code}/cancel-pending", userHandler.CancelPending)
	mux.HandleFunc("POST /api/users/{code}/remove-contact", userHandler.RemoveContact)

	// Group endpoints
	mux.HandleFunc("POST /api/groups", groupHandler.CreateGroup)
	mux.HandleFunc("GET /api/groups/{code}", groupHandler.GetGroup)
	mux.HandleFunc("PATCH /api/groups/{code}", groupHandler.UpdateGroup)
	mux.HandleFunc("POST /api/groups/{code}/kick", groupHandler.KickMember)
	mux.HandleFunc("POST /api/groups/{code}/mute", groupHandler.MuteMember)
	mux.HandleFunc("POST /api/groups/{code}/unmute", groupHandler.UnmuteMember)
	mux.HandleFunc("GET /api/users/{code}/groups", groupHandler.GetUserGroups)
	mux.HandleFunc("POST /api/users/{code}/join-group", groupHandler.JoinGroup)
	mux.HandleFunc("DELETE /api/users/{code}/groups/{groupCode}", groupHandler.LeaveGroup)

	// Message endpoints
	mux.HandleFunc("GET /api/messages/{user1}/{user2}", messageHandler.GetConversation)
	mux.HandleFunc("GET /api/group-messages/{groupCode}", messageHandler.GetGroupConversation)
	mux.HandleFunc("PATCH /api/messages/{id}", messageHandler.EditMessage)
	mux.HandleFunc("DELETE /api/messages/{id}", messageHandler.DeleteMessage)

	// Admin endpoints
	mux.HandleFunc("GET /api/admin/users", adminHandler.ListUsers)
	mux.HandleFunc("DELETE /api/admin/users/{code}", adminHandler.DeleteUser)
	mux.HandleFunc("DELETE /api/admin/groups/{groupCode}", adminHandler.DeleteGroup)
	mux.HandleFunc("POST /api/admin/groups/{groupCode}/ban", adminHandler.BanMember)

	// API documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
