package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Stasoks/HR-Site/controllers/admins"
	"github.com/Stasoks/HR-Site/middleware"
)

// SetAdminRoutes registers the admin endpoints on the given subrouter.
func SetAdminRoutes(api *mux.Router) {
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuthMiddleware)

	// Task catalog management
	admin.Handle("/tasks", http.HandlerFunc(admins.TaskListHandler)).Methods(http.MethodGet)
	admin.Handle("/tasks", http.HandlerFunc(admins.TaskCreateHandler)).Methods(http.MethodPost)
	admin.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.TaskGetHandler)).Methods(http.MethodGet)
	admin.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.TaskUpdateHandler)).Methods(http.MethodPut)
	admin.Handle("/tasks/{id:[0-9]+}/toggle", http.HandlerFunc(admins.TaskToggleHandler)).Methods(http.MethodPost)
	admin.Handle("/tasks/{id:[0-9]+}", http.HandlerFunc(admins.TaskDeleteHandler)).Methods(http.MethodDelete)

	// Moderation queue
	admin.Handle("/moderation", http.HandlerFunc(admins.ModerationListHandler)).Methods(http.MethodGet)
	admin.Handle("/moderation/approve-all", http.HandlerFunc(admins.ModerationApproveAllHandler)).Methods(http.MethodPost)
	admin.Handle("/moderation/{id:[0-9]+}/proof", http.HandlerFunc(admins.ModerationProofHandler)).Methods(http.MethodGet)
	admin.Handle("/moderation/{id:[0-9]+}/approve", http.HandlerFunc(admins.ModerationApproveHandler)).Methods(http.MethodPost)
	admin.Handle("/moderation/{id:[0-9]+}/reject", http.HandlerFunc(admins.ModerationRejectHandler)).Methods(http.MethodPost)
	admin.Handle("/moderation/{id:[0-9]+}/revision", http.HandlerFunc(admins.ModerationRevisionHandler)).Methods(http.MethodPost)

	// User accounts and balance overrides
	admin.Handle("/users", http.HandlerFunc(admins.UserListHandler)).Methods(http.MethodGet)
	admin.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.UserGetHandler)).Methods(http.MethodGet)
	admin.Handle("/users/{id:[0-9]+}/balance", http.HandlerFunc(admins.UserBalanceHandler)).Methods(http.MethodPost)
	admin.Handle("/users/{id:[0-9]+}/update", http.HandlerFunc(admins.UserUpdateHandler)).Methods(http.MethodPost)

	// Leaderboards
	admin.Handle("/top-earners", admins.TopEarnersHandler).Methods(http.MethodGet)
	admin.Handle("/most-productive", admins.MostProductiveHandler).Methods(http.MethodGet)
	admin.Handle("/quality-leaders", admins.QualityLeadersHandler).Methods(http.MethodGet)

	// Dashboard
	admin.Handle("/dashboard", http.HandlerFunc(admins.DashboardHandler)).Methods(http.MethodGet)

	// News
	admin.Handle("/news", http.HandlerFunc(admins.NewsListHandler)).Methods(http.MethodGet)
	admin.Handle("/news", http.HandlerFunc(admins.NewsCreateHandler)).Methods(http.MethodPost)
	admin.Handle("/news/{id:[0-9]+}", http.HandlerFunc(admins.NewsUpdateHandler)).Methods(http.MethodPut)
	admin.Handle("/news/{id:[0-9]+}", http.HandlerFunc(admins.NewsDeleteHandler)).Methods(http.MethodDelete)
}
