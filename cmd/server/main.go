package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"birs-backend/internal/auth"
	"birs-backend/internal/cache"
	"birs-backend/internal/config"
	"birs-backend/internal/database"
	"birs-backend/internal/db"
	"birs-backend/internal/handlers"
	"birs-backend/internal/health"
	h "birs-backend/internal/http"
	"birs-backend/internal/middleware"
	"birs-backend/internal/monitoring"
	"birs-backend/internal/payment"
	"birs-backend/internal/repositories"
	"birs-backend/internal/services"
)

// buildVerifiers selects the live gateway clients or the mock depending on
// configuration. Live mode requires credentials for both channels.
func buildVerifiers(cfg *config.Config) payment.Verifiers {
	if cfg.Verifier.UseLiveAPI {
		log.Println("[Payment] using live Remita and PayDirect gateways")
		return payment.Verifiers{
			Remita:    payment.NewRemitaVerifier(cfg.Verifier.RemitaAPIKey, cfg.Verifier.RemitaMerchantID),
			PayDirect: payment.NewPayDirectVerifier(cfg.Verifier.PayDirectAPIKey),
		}
	}
	log.Println("[Payment] using mock verifiers (set USE_LIVE_API=true for production)")
	return payment.Verifiers{
		Remita:    payment.NewMockVerifier("remita"),
		PayDirect: payment.NewMockVerifier("paydirect"),
	}
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis cache is optional - graceful fallback if unavailable
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (dashboards compute on every request)", err)
	} else if cache.GetClient() != nil {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations on startup
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.NewMigrator(pool).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)

	// Monitoring side server (Prometheus metrics, system stats)
	go func() {
		if err := monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort, healthChecker).Start(); err != nil {
			log.Printf("[Monitoring] server stopped: %v", err)
		}
	}()

	jwtManager := auth.NewJWTManager(cfg)
	verifiers := buildVerifiers(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	entryRepo := repositories.NewTaxEntryRepository(pool)
	performanceRepo := repositories.NewPerformanceRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, performanceRepo, jwtManager)
	entryService := services.NewEntryService(entryRepo, verifiers)
	leagueService := services.NewLeagueService(userRepo, entryRepo, performanceRepo)
	dashboardService := services.NewDashboardService(entryRepo, performanceRepo, leagueService)
	exportService := services.NewExportService(entryRepo, leagueService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	entryHandler := handlers.NewEntryHandler(entryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	exportHandler := handlers.NewExportHandler(exportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		userHandler,
		entryHandler,
		dashboardHandler,
		leagueHandler,
		exportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.NewCORS(cfg)(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
