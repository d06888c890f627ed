package routes

import (
	"net/http"

	"github.com/retrocade/retrocade/internal/app"
	"github.com/retrocade/retrocade/internal/handler"
	"github.com/retrocade/retrocade/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	games := handler.NewGameHandler(app.GameService)
	files := handler.NewFileHandler(app.FileService, app.Cfg.MaxUploadSize, app.Metrics)
	rom := handler.NewRomHandler(app.RomProxy, app.Metrics)
	saves := handler.NewSaveHandler(app.SaveService, app.Cfg.MaxSaveSize)
	auth := handler.NewAuthHandler(app.AuthService, app.Metrics)
	capybaras := handler.NewCapybaraHandler(app.CapybaraService)
	health := handler.NewHealthHandler(app.DB)

	requireAuth := middleware.RequireAuth(app.AuthService)
	rateLimit := middleware.RateLimit(app.LoginLimiter)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Catalog
	mux.HandleFunc("GET /api/games", games.List)
	mux.HandleFunc("GET /api/games/{id}", games.Get)
	mux.HandleFunc("GET /api/games/{id}/launch", games.Launch)
	mux.HandleFunc("GET /api/platforms", handler.Platforms)
	mux.HandleFunc("GET /api/capybaras", capybaras.List)

	// Blobs and ROM proxy
	mux.HandleFunc("GET /api/files/{id}", files.Serve)
	mux.HandleFunc("GET /api/rom", rom.Proxy)

	// Save states
	mux.HandleFunc("GET /api/saves/{gameId}", saves.Latest)
	mux.HandleFunc("POST /api/saves", saves.Create)

	// Auth (login rate limited)
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))
	mux.HandleFunc("POST /api/auth/verify", requireAuth(auth.Verify))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// ADMIN ROUTES (bearer token)
	// ============================================================================

	mux.HandleFunc("POST /api/games", requireAuth(games.Create))
	mux.HandleFunc("DELETE /api/games/{id}", requireAuth(games.Delete))
	mux.HandleFunc("POST /api/upload-rom", requireAuth(files.UploadRom))
	mux.HandleFunc("POST /api/upload-cover", requireAuth(files.UploadCover))
	mux.HandleFunc("GET /api/files", requireAuth(files.List))
	mux.HandleFunc("POST /api/capybaras", requireAuth(capybaras.Create))
	mux.HandleFunc("DELETE /api/capybaras/{id}", requireAuth(capybaras.Delete))

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", app.Metrics.Handler())

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/api/", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		// Client IP for logs and rate limiting
		middleware.RealIP(app.Cfg.TrustProxyHeaders),
		// Security headers for all responses
		middleware.SecurityHeaders,
		// Last, so it sees the route pattern the mux matched
		middleware.RequestLogging(app.Metrics),
	)

	return handler
}
