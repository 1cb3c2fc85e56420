package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/domain/rating"
	"github.com/riskibarqy/prissleague/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
)

type CreateMatchInput struct {
	Team1IDs []string
	Team2IDs []string
	RoomCode string
	Division string
}

// RatingChange is one player's rating movement from a completed match.
type RatingChange struct {
	DiscordID string `json:"discord_id"`
	OldRating int    `json:"old_rating"`
	NewRating int    `json:"new_rating"`
	Change    int    `json:"change"`
	Won       bool   `json:"won"`
}

type MatchResult struct {
	Match   match.Match
	Changes []RatingChange
}

type MatchService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	idGen      id.Generator
	now        func() time.Time
}

func NewMatchService(matchRepo match.Repository, playerRepo player.Repository, idGen id.Generator) *MatchService {
	if idGen == nil {
		idGen = id.NewNanoGenerator()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	publicID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	division := strings.TrimSpace(input.Division)
	if division == "" {
		division = player.DefaultDivision
	}

	item := match.Match{
		PublicID:  publicID,
		Division:  division,
		Team1:     trimIDs(input.Team1IDs),
		Team2:     trimIDs(input.Team2IDs),
		RoomCode:  strings.TrimSpace(input.RoomCode),
		Status:    match.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.matchRepo.Create(ctx, item)
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return created, nil
}

func (s *MatchService) Get(ctx context.Context, publicID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get", attribute.String("match.public_id", publicID))
	defer span.End()

	return s.getMatch(ctx, publicID)
}

// Complete applies Elo updates for both rosters and closes the match.
// Only a pending match can be completed.
func (s *MatchService) Complete(ctx context.Context, publicID, winnerRaw string) (MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Complete", attribute.String("match.public_id", publicID))
	defer span.End()

	winner, err := match.ParseWinner(winnerRaw)
	if err != nil {
		return MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, err := s.getMatch(ctx, publicID)
	if err != nil {
		return MatchResult{}, err
	}
	if item.Status != match.StatusPending {
		return MatchResult{}, fmt.Errorf("%w: match=%s status=%s", ErrConflict, item.PublicID, item.Status)
	}

	players, err := s.playerRepo.GetByDiscordIDs(ctx, item.PlayerIDs())
	if err != nil {
		return MatchResult{}, fmt.Errorf("get rostered players: %w", err)
	}
	known := make(map[string]player.Player, len(players))
	for _, p := range players {
		known[p.DiscordID] = p
	}

	winners, losers := item.Team1, item.Team2
	if winner == match.WinnerTeam2 {
		winners, losers = item.Team2, item.Team1
	}
	winnerAvg := rating.Average(rosterRatings(winners, known))
	loserAvg := rating.Average(rosterRatings(losers, known))

	updates := make([]match.RatingUpdate, 0, len(winners)+len(losers))
	changes := make([]RatingChange, 0, len(winners)+len(losers))
	apply := func(ids []string, opponentAvg float64, won bool) {
		for _, discordID := range ids {
			current, exists := known[discordID]
			name := current.Name
			if !exists || strings.TrimSpace(name) == "" {
				name = player.PlaceholderName(discordID)
			}
			delta := rating.Change(float64(current.Rating), opponentAvg, won)
			next := rating.Apply(current.Rating, delta)

			updates = append(updates, match.RatingUpdate{DiscordID: discordID, Name: name, Rating: next, Won: won})
			changes = append(changes, RatingChange{
				DiscordID: discordID,
				OldRating: current.Rating,
				NewRating: next,
				Change:    next - current.Rating,
				Won:       won,
			})
		}
	}
	apply(winners, loserAvg, true)
	apply(losers, winnerAvg, false)

	err = s.matchRepo.Complete(ctx, match.CompleteInput{
		PublicID: item.PublicID,
		Winner:   winner,
		Updates:  updates,
	})
	if errors.Is(err, match.ErrNotPending) {
		return MatchResult{}, fmt.Errorf("%w: match=%s was finalized concurrently", ErrConflict, item.PublicID)
	}
	if err != nil {
		return MatchResult{}, fmt.Errorf("complete match: %w", err)
	}

	completedAt := s.now().UTC()
	item.Status = match.StatusCompleted
	item.Winner = string(winner)
	item.CompletedAt = &completedAt

	return MatchResult{Match: item, Changes: changes}, nil
}

func (s *MatchService) Cancel(ctx context.Context, publicID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel", attribute.String("match.public_id", publicID))
	defer span.End()

	item, err := s.getMatch(ctx, publicID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status != match.StatusPending {
		return match.Match{}, fmt.Errorf("%w: match=%s status=%s", ErrConflict, item.PublicID, item.Status)
	}

	err = s.matchRepo.Cancel(ctx, item.PublicID)
	if errors.Is(err, match.ErrNotPending) {
		return match.Match{}, fmt.Errorf("%w: match=%s was finalized concurrently", ErrConflict, item.PublicID)
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("cancel match: %w", err)
	}

	item.Status = match.StatusCancelled
	return item, nil
}

func (s *MatchService) getMatch(ctx context.Context, publicID string) (match.Match, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, publicID)
	}

	return item, nil
}

func rosterRatings(ids []string, known map[string]player.Player) []int {
	out := make([]int, 0, len(ids))
	for _, discordID := range ids {
		out = append(out, known[discordID].Rating)
	}
	return out
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
