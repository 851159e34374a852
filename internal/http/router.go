package http

import (
	"github.com/gorilla/mux"

	"birs-backend/internal/handlers"
	"birs-backend/internal/middleware"
	"birs-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	entryHandler *handlers.EntryHandler,
	dashboardHandler *handlers.DashboardHandler,
	leagueHandler *handlers.LeagueHandler,
	exportHandler *handlers.ExportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Any authenticated user
	authAPI := r.PathPrefix("/api").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	// Entry submission and management. ATOs work on their own entries; the
	// service layer enforces ownership.
	entryAPI := r.PathPrefix("/api/entries").Subrouter()
	entryAPI.Use(authMiddleware.Authenticate)
	entryAPI.HandleFunc("", entryHandler.Submit).Methods("POST")
	entryAPI.HandleFunc("", entryHandler.List).Methods("GET")
	entryAPI.HandleFunc("/{id:[0-9]+}", entryHandler.Get).Methods("GET")
	entryAPI.HandleFunc("/{id:[0-9]+}", entryHandler.Delete).Methods("DELETE")

	// Reverification is an admin/reviewer action
	reverifyAPI := r.PathPrefix("/api/entries").Subrouter()
	reverifyAPI.Use(authMiddleware.RequireRole(models.RoleAdmin, models.RoleReviewer))
	reverifyAPI.HandleFunc("/{id:[0-9]+}/reverify", entryHandler.Reverify).Methods("POST")

	// Agent dashboard
	agentAPI := r.PathPrefix("/api/dashboard").Subrouter()
	agentAPI.Use(authMiddleware.RequireRole(models.RoleATO))
	agentAPI.HandleFunc("/agent", dashboardHandler.Agent).Methods("GET")

	// Management surface: admin plus the read-only oversight roles
	management := r.PathPrefix("/api").Subrouter()
	management.Use(authMiddleware.RequireRole(
		models.RoleAdmin, models.RoleReviewer, models.RoleChairman, models.RoleDirector))
	management.HandleFunc("/dashboard/admin", dashboardHandler.Admin).Methods("GET")
	management.HandleFunc("/league", leagueHandler.Table).Methods("GET")
	management.HandleFunc("/league/snapshots", leagueHandler.Snapshots).Methods("GET")
	management.HandleFunc("/league/snapshots/{year:[0-9]+}/{month:[0-9]+}", leagueHandler.Snapshot).Methods("GET")
	management.HandleFunc("/league/compare", leagueHandler.Compare).Methods("GET")
	management.HandleFunc("/league/agents/{id:[0-9]+}", leagueHandler.AgentDetail).Methods("GET")
	management.HandleFunc("/export/entries.csv", exportHandler.EntriesCSV).Methods("GET")
	management.HandleFunc("/export/entries.xlsx", exportHandler.EntriesExcel).Methods("GET")
	management.HandleFunc("/export/league.pdf", exportHandler.LeaguePDF).Methods("GET")
	management.HandleFunc("/export/league.csv", exportHandler.LeagueCSV).Methods("GET")

	// Admin-only operations
	adminAPI := r.PathPrefix("/api").Subrouter()
	adminAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	adminAPI.HandleFunc("/users", userHandler.Create).Methods("POST")
	adminAPI.HandleFunc("/users", userHandler.List).Methods("GET")
	adminAPI.HandleFunc("/users/{id:[0-9]+}", userHandler.Get).Methods("GET")
	adminAPI.HandleFunc("/users/{id:[0-9]+}", userHandler.Update).Methods("PUT")
	adminAPI.HandleFunc("/users/{id:[0-9]+}", userHandler.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/users/ato", userHandler.CreateATO).Methods("POST")
	adminAPI.HandleFunc("/users/{id:[0-9]+}/summary", leagueHandler.RecordSummary).Methods("POST")
	adminAPI.HandleFunc("/league/freeze", leagueHandler.Freeze).Methods("POST")
	adminAPI.HandleFunc("/targets", leagueHandler.SetTarget).Methods("POST")

	return r
}
