package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/prissleague/internal/platform/id"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
)

func NewHTTPServer(cfg config.Config, repos Repositories, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	playerSvc := usecase.NewPlayerService(usecase.PlayerServiceConfig{
		Division:         cfg.LeaderboardDivision,
		LeaderboardLimit: cfg.LeaderboardLimit,
	}, repos.Players)
	matchSvc := usecase.NewMatchService(repos.Matches, repos.Players, idgen.NewNanoGenerator())

	handler := httpapi.NewHandler(playerSvc, matchSvc, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		AdminIDs:           cfg.AdminUserIDs,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SwaggerEnabled:     cfg.SwaggerEnabled,
	}, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if len(cfg.AdminUserIDs) == 0 {
		logger.Warn("ADMIN_USER_IDS is empty, admin routes will reject every caller")
	}

	return server, nil
}
