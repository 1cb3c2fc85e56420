package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultAuthBackfillPage    = 1000
	defaultRestoreMatchLimit   = 1000
	defaultMaintenanceParallel = 4
	maxAuthBackfillPages       = 1000
	fallbackAuthPlayerName     = "Player"
)

// ExternalAuthUser is an account from the auth provider's admin API.
type ExternalAuthUser struct {
	ID          string
	Email       string
	DiscordID   string
	DisplayName string
}

type AuthUserProvider interface {
	// ListUsers returns one page of users; pages start at 1.
	ListUsers(ctx context.Context, page, perPage int) ([]ExternalAuthUser, error)
}

type MaintenanceConfig struct {
	Concurrency int
}

type CleanupInput struct {
	InactivityDays int
	DryRun         bool
}

type CleanupResult struct {
	Cutoff     time.Time `json:"cutoff"`
	Candidates []string  `json:"candidates"`
	Deleted    int64     `json:"deleted"`
	DryRun     bool      `json:"dry_run"`
}

type BackfillInput struct {
	PageSize int
	DryRun   bool
}

type BackfillResult struct {
	Pages    int  `json:"pages"`
	Users    int  `json:"users"`
	Upserted int  `json:"upserted"`
	Skipped  int  `json:"skipped"`
	Failed   int  `json:"failed"`
	DryRun   bool `json:"dry_run"`
}

type RestoreInput struct {
	MatchLimit int
	DryRun     bool
}

type RestoreResult struct {
	Matches  int  `json:"matches"`
	Players  int  `json:"players"`
	Restored int  `json:"restored"`
	Named    int  `json:"named"`
	Missing  int  `json:"missing"`
	Failed   int  `json:"failed"`
	DryRun   bool `json:"dry_run"`
}

type MaintenanceService struct {
	cfg        MaintenanceConfig
	playerRepo player.Repository
	matchRepo  match.Repository
	authUsers  AuthUserProvider
	logger     *logging.Logger
	now        func() time.Time
}

func NewMaintenanceService(
	cfg MaintenanceConfig,
	playerRepo player.Repository,
	matchRepo match.Repository,
	authUsers AuthUserProvider,
	logger *logging.Logger,
) *MaintenanceService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultMaintenanceParallel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MaintenanceService{
		cfg:        cfg,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		authUsers:  authUsers,
		logger:     logger.Named("maintenance"),
		now:        time.Now,
	}
}

// CleanupInactive deletes players whose last activity is older than the
// threshold, along with players that carry no timestamp at all.
func (s *MaintenanceService) CleanupInactive(ctx context.Context, input CleanupInput) (CleanupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.CleanupInactive")
	defer span.End()

	days := input.InactivityDays
	if days < 1 {
		return CleanupResult{}, fmt.Errorf("%w: inactivity days must be >= 1", ErrInvalidInput)
	}

	result := CleanupResult{
		Cutoff: s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour),
		DryRun: input.DryRun,
	}
	s.logger.InfoContext(ctx, "removing inactive players", "inactivity_days", days, "cutoff", result.Cutoff)

	players, err := s.playerRepo.ListByLastActivity(ctx)
	if err != nil {
		return result, fmt.Errorf("list players by last activity: %w", err)
	}
	for _, item := range players {
		if item.InactiveSince(result.Cutoff) {
			result.Candidates = append(result.Candidates, item.DiscordID)
		}
	}

	if len(result.Candidates) == 0 {
		s.logger.InfoContext(ctx, "no inactive players to remove")
		return result, nil
	}
	if input.DryRun {
		s.logger.InfoContext(ctx, "dry run, inactive players kept", "count", len(result.Candidates))
		return result, nil
	}

	deleted, err := s.playerRepo.DeleteByDiscordIDs(ctx, result.Candidates)
	if err != nil {
		return result, fmt.Errorf("delete inactive players: %w", err)
	}
	result.Deleted = deleted

	s.logger.InfoContext(ctx, "inactive players removed", "count", deleted)
	return result, nil
}

// BackfillAuthUsers upserts a player row for every auth account linked to a
// chat platform id. Per-user failures are logged and counted.
func (s *MaintenanceService) BackfillAuthUsers(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.BackfillAuthUsers")
	defer span.End()

	if s.authUsers == nil {
		return BackfillResult{}, fmt.Errorf("%w: auth user provider is not configured", ErrDependencyUnavailable)
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultAuthBackfillPage
	}

	result := BackfillResult{DryRun: input.DryRun}
	var upserted, skipped, failed atomic.Int32

	for page := 1; page <= maxAuthBackfillPages; page++ {
		users, err := s.authUsers.ListUsers(ctx, page, pageSize)
		if err != nil {
			return result, fmt.Errorf("%w: list auth users page=%d: %v", ErrDependencyUnavailable, page, err)
		}
		result.Pages++
		result.Users += len(users)
		s.logger.InfoContext(ctx, "auth users page read", "page", page, "users", len(users))

		workers := pool.New().WithMaxGoroutines(s.cfg.Concurrency)
		for _, user := range users {
			workers.Go(func() {
				discordID := strings.TrimSpace(user.DiscordID)
				if discordID == "" {
					skipped.Add(1)
					return
				}
				name := authDisplayName(user)
				if input.DryRun {
					upserted.Add(1)
					return
				}
				if err := s.playerRepo.Upsert(ctx, player.UpsertInput{DiscordID: discordID, Name: name}); err != nil {
					failed.Add(1)
					s.logger.ErrorContext(ctx, "upsert player from auth user failed", "discord_id", discordID, "error", err)
					return
				}
				upserted.Add(1)
			})
		}
		workers.Wait()

		if len(users) < pageSize {
			break
		}
	}

	result.Upserted = int(upserted.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "auth user backfill finished",
		"pages", result.Pages,
		"users", result.Users,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// RestoreDisplayNames gives a placeholder name to every player seen in the
// latest matches whose name was lost.
func (s *MaintenanceService) RestoreDisplayNames(ctx context.Context, input RestoreInput) (RestoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.RestoreDisplayNames")
	defer span.End()

	limit := input.MatchLimit
	if limit <= 0 {
		limit = defaultRestoreMatchLimit
	}

	matches, err := s.matchRepo.ListRecent(ctx, limit)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("list recent matches: %w", err)
	}
	ids := rosterIDs(matches)
	result := RestoreResult{Matches: len(matches), Players: len(ids), DryRun: input.DryRun}
	s.logger.InfoContext(ctx, "players found in recent matches", "matches", len(matches), "players", len(ids))

	var restored, named, missing, failed atomic.Int32
	workers := pool.New().WithMaxGoroutines(s.cfg.Concurrency)
	for _, discordID := range ids {
		workers.Go(func() {
			item, exists, err := s.playerRepo.GetByDiscordID(ctx, discordID)
			if err != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "read player failed", "discord_id", discordID, "error", err)
				return
			}
			if exists && strings.TrimSpace(item.Name) != "" {
				named.Add(1)
				return
			}
			if !exists {
				missing.Add(1)
				return
			}
			if input.DryRun {
				restored.Add(1)
				return
			}

			updated, err := s.playerRepo.UpdateName(ctx, discordID, player.PlaceholderName(discordID))
			if err != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "update player name failed", "discord_id", discordID, "error", err)
				return
			}
			if !updated {
				missing.Add(1)
				return
			}
			restored.Add(1)
		})
	}
	workers.Wait()

	result.Restored = int(restored.Load())
	result.Named = int(named.Load())
	result.Missing = int(missing.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "display name restore finished",
		"restored", result.Restored,
		"named", result.Named,
		"missing", result.Missing,
		"failed", result.Failed,
	)
	return result, nil
}

func authDisplayName(user ExternalAuthUser) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	if email := strings.TrimSpace(user.Email); email != "" {
		return email
	}
	return fallbackAuthPlayerName
}

// rosterIDs returns the distinct player ids of matches in first-seen order.
func rosterIDs(matches []match.Match) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, m := range matches {
		for _, discordID := range m.PlayerIDs() {
			discordID = strings.TrimSpace(discordID)
			if discordID == "" {
				continue
			}
			if _, ok := seen[discordID]; ok {
				continue
			}
			seen[discordID] = struct{}{}
			out = append(out, discordID)
		}
	}
	return slices.Clip(out)
}
