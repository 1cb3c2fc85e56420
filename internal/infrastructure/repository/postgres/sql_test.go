package postgres

import (
	"database/sql"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get player: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation players does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("insert match: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for 23505")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores non pq errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("boom")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestMatchFromRow_ReadsBothRosterFormats(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := matchFromRow(matchTableModel{
		ID:        9,
		PublicID:  "abc",
		Division:  "solo",
		Team1IDs:  "[111, 222, 333]",
		Team2IDs:  "444,555,666",
		Status:    "completed",
		Winner:    "team1",
		CreatedAt: created,
	})

	if !slices.Equal(got.Team1, []string{"111", "222", "333"}) {
		t.Fatalf("unexpected team1: %v", got.Team1)
	}
	if !slices.Equal(got.Team2, []string{"444", "555", "666"}) {
		t.Fatalf("unexpected team2: %v", got.Team2)
	}
	if got.Status != match.StatusCompleted || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected match: %+v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestUpsertPlayerQuery_TouchesUpdatedAt(t *testing.T) {
	query, args, err := upsertPlayerQuery(player.UpsertInput{DiscordID: " 42 ", Name: " Kai "})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "INSERT INTO players (discord_id, name) VALUES ($1, $2) ON CONFLICT (discord_id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()"
	if query != want {
		t.Fatalf("unexpected query:\n got: %s\nwant: %s", query, want)
	}
	if !slices.Equal(args, []any{"42", "Kai"}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}
