package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
)

func TestPlayerRepository_ListLeaderboard(t *testing.T) {
	t.Parallel()

	repo := NewPlayerRepository(SeedPlayers())
	got, err := repo.ListLeaderboard(context.Background(), player.DefaultDivision, 3)
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 players, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Rating < got[i].Rating {
			t.Fatalf("leaderboard not sorted by rating: %+v", got)
		}
	}
	for _, p := range got {
		if p.Division != player.DefaultDivision {
			t.Fatalf("unexpected division in leaderboard: %+v", p)
		}
	}
}

func TestPlayerRepository_ListByLastActivity_NilFirst(t *testing.T) {
	t.Parallel()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewPlayerRepository([]player.Player{
		{DiscordID: "new", UpdatedAt: &newer},
		{DiscordID: "none"},
		{DiscordID: "old", CreatedAt: &older},
	})

	got, _ := repo.ListByLastActivity(context.Background())
	if got[0].DiscordID != "none" || got[1].DiscordID != "old" || got[2].DiscordID != "new" {
		t.Fatalf("unexpected order: %v %v %v", got[0].DiscordID, got[1].DiscordID, got[2].DiscordID)
	}
}

func TestPlayerRepository_UpsertExistingTouchesActivity(t *testing.T) {
	t.Parallel()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := NewPlayerRepository([]player.Player{{DiscordID: "1", Name: "Old", CreatedAt: &older}})
	repo.now = func() time.Time { return now }

	if err := repo.Upsert(context.Background(), player.UpsertInput{DiscordID: "1", Name: "New"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _ := repo.ListByLastActivity(context.Background())
	if len(got) != 1 || got[0].Name != "New" {
		t.Fatalf("unexpected players: %+v", got)
	}
	if last := got[0].LastActivity(); last == nil || !last.Equal(now) {
		t.Fatalf("expected last activity %v, got %v", now, last)
	}
}

func TestMatchRepository_CreateEnsuresPlayersAndCompleteUpdatesRatings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	players := NewPlayerRepository([]player.Player{{DiscordID: "1", Name: "One", Rating: 1000}})
	matches := NewMatchRepository(players)

	created, err := matches.Create(ctx, match.Match{
		PublicID: "abc",
		Division: player.DefaultDivision,
		Team1:    []string{"1"},
		Team2:    []string{"2"},
		RoomCode: "ROOM",
		Status:   match.StatusPending,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("unexpected match id: %d", created.ID)
	}
	if _, ok, _ := players.GetByDiscordID(ctx, "2"); !ok {
		t.Fatalf("expected rostered player 2 to be created")
	}

	err = matches.Complete(ctx, match.CompleteInput{
		PublicID: "abc",
		Winner:   match.WinnerTeam1,
		Updates: []match.RatingUpdate{
			{DiscordID: "1", Name: "One", Rating: 1015, Won: true},
			{DiscordID: "2", Name: "Player 2", Rating: 0, Won: false},
		},
	})
	if err != nil {
		t.Fatalf("complete match: %v", err)
	}

	one, _, _ := players.GetByDiscordID(ctx, "1")
	two, _, _ := players.GetByDiscordID(ctx, "2")
	if one.Rating != 1015 || one.Wins != 1 || one.UpdatedAt == nil {
		t.Fatalf("unexpected winner row: %+v", one)
	}
	if two.Losses != 1 || two.Name != "Player 2" {
		t.Fatalf("unexpected loser row: %+v", two)
	}

	if err := matches.Complete(ctx, match.CompleteInput{PublicID: "abc", Winner: match.WinnerTeam2}); !errors.Is(err, match.ErrNotPending) {
		t.Fatalf("expected ErrNotPending on second completion, got %v", err)
	}
	if err := matches.Cancel(ctx, "abc"); !errors.Is(err, match.ErrNotPending) {
		t.Fatalf("expected ErrNotPending on cancel after completion, got %v", err)
	}
}
