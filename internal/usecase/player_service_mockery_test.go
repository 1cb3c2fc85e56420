package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/prissleague/internal/domain/player"
	playermock "github.com/riskibarqy/prissleague/internal/mocks/domain/player"
	"github.com/stretchr/testify/mock"
)

func TestPlayerService_Leaderboard_UsesConfiguredDivisionAndLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(PlayerServiceConfig{Division: "duo", LeaderboardLimit: 10}, playerRepo)

	expected := []player.Player{
		{DiscordID: "1", Name: "Ace", Rating: 1900},
		{DiscordID: "2", Name: "Bee", Rating: 1500},
	}
	playerRepo.
		On("ListLeaderboard", mock.Anything, "duo", 10).
		Return(expected, nil).
		Once()

	got, err := service.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(got) != 2 || got[0].DiscordID != "1" {
		t.Fatalf("unexpected leaderboard: %+v", got)
	}
}

func TestPlayerService_Leaderboard_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(PlayerServiceConfig{}, playerRepo)

	playerRepo.
		On("ListLeaderboard", mock.Anything, player.DefaultDivision, defaultLeaderboardLimit).
		Return(nil, nil).
		Once()

	got, err := service.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestPlayerService_Leaderboard_RejectsHugeLimit(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(PlayerServiceConfig{}, playermock.NewRepository(t))
	if _, err := service.Leaderboard(context.Background(), maxLeaderboardLimit+1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_GetPlayer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(PlayerServiceConfig{}, playerRepo)

	playerRepo.
		On("GetByDiscordID", mock.Anything, "42").
		Return(player.Player{DiscordID: "42", Name: "Answer"}, true, nil).
		Once()
	playerRepo.
		On("GetByDiscordID", mock.Anything, "missing").
		Return(player.Player{}, false, nil).
		Once()

	got, err := service.GetPlayer(ctx, " 42 ")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.Name != "Answer" {
		t.Fatalf("unexpected player: %+v", got)
	}

	if _, err := service.GetPlayer(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetPlayer(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
