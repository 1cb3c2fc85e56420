package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prissleague/internal/domain/player"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 500
)

type PlayerServiceConfig struct {
	Division         string
	LeaderboardLimit int
}

type PlayerService struct {
	cfg        PlayerServiceConfig
	playerRepo player.Repository
}

func NewPlayerService(cfg PlayerServiceConfig, playerRepo player.Repository) *PlayerService {
	cfg.Division = strings.TrimSpace(cfg.Division)
	if cfg.Division == "" {
		cfg.Division = player.DefaultDivision
	}
	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = defaultLeaderboardLimit
	}
	return &PlayerService{
		cfg:        cfg,
		playerRepo: playerRepo,
	}
}

// Leaderboard returns the top players of the configured division by rating.
// A non-positive limit uses the configured default.
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Leaderboard")
	defer span.End()

	if limit <= 0 {
		limit = s.cfg.LeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, maxLeaderboardLimit)
	}

	players, err := s.playerRepo.ListLeaderboard(ctx, s.cfg.Division, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	if players == nil {
		players = []player.Player{}
	}

	return players, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, discordID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer", attribute.String("player.discord_id", discordID))
	defer span.End()

	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, discordID)
	}

	return item, nil
}
