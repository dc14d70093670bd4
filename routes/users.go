package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Stasoks/HR-Site/controllers/users"
	"github.com/Stasoks/HR-Site/middleware"
)

// UsersRoutes registers the worker-facing endpoints on the given
// subrouter.
func UsersRoutes(api *mux.Router) {
	// Rate limiter for public endpoints: per IP over 5 minutes
	publicLimiter := middleware.NewIPRateLimiter(300, 5*time.Minute)
	// Per-user session limiter: 120 read, 60 write, 60s window
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	authed := func(h http.HandlerFunc) http.Handler {
		return userLimiter.Middleware(middleware.AuthMiddleware(h))
	}

	// Task catalog and lifecycle
	api.Handle("/tasks", authed(users.TaskListHandler)).Methods(http.MethodGet)
	api.Handle("/tasks/stats", authed(users.TaskStatsHandler)).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}/take", authed(users.TakeTaskHandler)).Methods(http.MethodPost)
	api.Handle("/tasks/{id:[0-9]+}/submit", authed(users.SubmitTaskHandler)).Methods(http.MethodPost)

	// Account
	api.Handle("/logout", authed(users.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/profile", authed(users.ProfileHandler)).Methods(http.MethodGet)
	api.Handle("/transactions", authed(users.TransactionsHandler)).Methods(http.MethodGet)
	api.Handle("/news", authed(users.NewsListHandler)).Methods(http.MethodGet)

	// Public leaderboards
	api.Handle("/awards", publicLimiter.Middleware(http.HandlerFunc(users.AwardsHandler))).Methods(http.MethodGet)
}
