package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	matchmock "github.com/riskibarqy/prissleague/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/prissleague/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/prissleague/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestPlayerRepository_LeaderboardCachedUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := playermock.NewRepository(t)
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	first := []player.Player{{DiscordID: "1", Rating: 1500}}
	second := []player.Player{{DiscordID: "1", Rating: 1500}, {DiscordID: "2", Rating: 1000}}
	next.On("ListLeaderboard", mock.Anything, "solo", 50).Return(first, nil).Once()

	for i := 0; i < 2; i++ {
		got, err := repo.ListLeaderboard(ctx, "solo", 50)
		if err != nil {
			t.Fatalf("list leaderboard: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("unexpected leaderboard: %+v", got)
		}
	}

	next.On("Upsert", mock.Anything, player.UpsertInput{DiscordID: "2", Name: "Two"}).Return(nil).Once()
	if err := repo.Upsert(ctx, player.UpsertInput{DiscordID: "2", Name: "Two"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	next.On("ListLeaderboard", mock.Anything, "solo", 50).Return(second, nil).Once()
	got, err := repo.ListLeaderboard(ctx, "solo", 50)
	if err != nil {
		t.Fatalf("list leaderboard after upsert: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected reload after upsert, got %+v", got)
	}
}

func TestPlayerRepository_CachesMissingPlayer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := playermock.NewRepository(t)
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByDiscordID", mock.Anything, "404").Return(player.Player{}, false, nil).Once()
	for i := 0; i < 3; i++ {
		_, ok, err := repo.GetByDiscordID(ctx, "404")
		if err != nil || ok {
			t.Fatalf("expected cached miss, got ok=%v err=%v", ok, err)
		}
	}
}

func TestPlayerRepository_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := playermock.NewRepository(t)
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByDiscordID", mock.Anything, "1").Return(player.Player{}, false, errors.New("db down")).Once()
	next.On("GetByDiscordID", mock.Anything, "1").Return(player.Player{DiscordID: "1"}, true, nil).Once()

	if _, _, err := repo.GetByDiscordID(ctx, "1"); err == nil {
		t.Fatalf("expected first lookup to fail")
	}
	if _, ok, err := repo.GetByDiscordID(ctx, "1"); err != nil || !ok {
		t.Fatalf("expected second lookup to hit the repository, ok=%v err=%v", ok, err)
	}
}

func TestMatchRepository_CompleteInvalidatesPlayersAndMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := basecache.NewStore(time.Minute)
	players := playermock.NewRepository(t)
	matches := matchmock.NewRepository(t)
	playerRepo := NewPlayerRepository(players, store)
	matchRepo := NewMatchRepository(matches, store)

	pending := match.Match{PublicID: "m1", Status: match.StatusPending}
	completed := match.Match{PublicID: "m1", Status: match.StatusCompleted}
	matches.On("GetByPublicID", mock.Anything, "m1").Return(pending, true, nil).Once()
	players.On("GetByDiscordID", mock.Anything, "1").Return(player.Player{DiscordID: "1", Rating: 1000}, true, nil).Once()

	if _, _, err := matchRepo.GetByPublicID(ctx, "m1"); err != nil {
		t.Fatalf("get match: %v", err)
	}
	if _, _, err := playerRepo.GetByDiscordID(ctx, "1"); err != nil {
		t.Fatalf("get player: %v", err)
	}

	input := match.CompleteInput{PublicID: "m1", Winner: match.WinnerTeam1}
	matches.On("Complete", mock.Anything, input).Return(nil).Once()
	if err := matchRepo.Complete(ctx, input); err != nil {
		t.Fatalf("complete: %v", err)
	}

	matches.On("GetByPublicID", mock.Anything, "m1").Return(completed, true, nil).Once()
	players.On("GetByDiscordID", mock.Anything, "1").Return(player.Player{DiscordID: "1", Rating: 1015}, true, nil).Once()

	gotMatch, _, _ := matchRepo.GetByPublicID(ctx, "m1")
	if gotMatch.Status != match.StatusCompleted {
		t.Fatalf("expected reloaded match, got %+v", gotMatch)
	}
	gotPlayer, _, _ := playerRepo.GetByDiscordID(ctx, "1")
	if gotPlayer.Rating != 1015 {
		t.Fatalf("expected reloaded player, got %+v", gotPlayer)
	}
}
