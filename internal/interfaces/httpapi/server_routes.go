package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prissleague/internal/platform/logging"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /api/health", handler.Health)
	mux.HandleFunc("/api/", handler.NotFound)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /api/player/{discordID}", handler.GetPlayer)
	mux.HandleFunc("GET /api/player/{$}", handler.GetPlayer)
	mux.HandleFunc("GET /api/matches/{matchID}", handler.GetMatch)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminIDs []string, logger *logging.Logger) {
	admin := func(next http.HandlerFunc) http.Handler {
		return RequireAdmin(adminIDs, logger, next)
	}

	mux.Handle("POST /api/matches", admin(handler.CreateMatch))
	mux.Handle("POST /api/matches/{matchID}/complete", admin(handler.CompleteMatch))
	mux.Handle("POST /api/matches/{matchID}/cancel", admin(handler.CancelMatch))
}
