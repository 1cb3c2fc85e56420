package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	"github.com/riskibarqy/prissleague/internal/platform/id"
	matchmock "github.com/riskibarqy/prissleague/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/prissleague/internal/mocks/domain/player"
	"github.com/stretchr/testify/mock"
)

func newMatchServiceForTest(t *testing.T) (*MatchService, *matchmock.Repository, *playermock.Repository) {
	t.Helper()

	matchRepo := matchmock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewMatchService(matchRepo, playerRepo, &id.SequenceGenerator{Prefix: "m"})
	service.now = func() time.Time { return time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC) }
	return service, matchRepo, playerRepo
}

func TestMatchService_Create_DefaultsDivisionAndStatus(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMatchServiceForTest(t)
	matchRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(m match.Match) bool {
			return m.PublicID == "m1" &&
				m.Division == player.DefaultDivision &&
				m.Status == match.StatusPending &&
				m.RoomCode == "ROOM42" &&
				len(m.Team1) == 2 && len(m.Team2) == 1
		})).
		Return(func(_ context.Context, m match.Match) (match.Match, error) {
			m.ID = 7
			return m, nil
		}).
		Once()

	got, err := service.Create(context.Background(), CreateMatchInput{
		Team1IDs: []string{"1", " 2 "},
		Team2IDs: []string{"3"},
		RoomCode: " ROOM42 ",
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if got.ID != 7 || got.Team1[1] != "2" {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestMatchService_Create_RejectsInvalidRoster(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchServiceForTest(t)
	tests := []CreateMatchInput{
		{Team1IDs: nil, Team2IDs: []string{"1"}, RoomCode: "R"},
		{Team1IDs: []string{"1"}, Team2IDs: []string{""}, RoomCode: "R"},
		{Team1IDs: []string{"1"}, Team2IDs: []string{"1"}, RoomCode: "R"},
		{Team1IDs: []string{"1"}, Team2IDs: []string{"2"}, RoomCode: " "},
	}
	for _, input := range tests {
		if _, err := service.Create(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestMatchService_Complete_AppliesEloToBothRosters(t *testing.T) {
	t.Parallel()

	service, matchRepo, playerRepo := newMatchServiceForTest(t)
	pending := match.Match{PublicID: "m1", Team1: []string{"1"}, Team2: []string{"2", "3"}, RoomCode: "R", Status: match.StatusPending}

	matchRepo.On("GetByPublicID", mock.Anything, "m1").Return(pending, true, nil).Once()
	playerRepo.
		On("GetByDiscordIDs", mock.Anything, []string{"1", "2", "3"}).
		Return([]player.Player{
			{DiscordID: "1", Name: "One", Rating: 1000},
			{DiscordID: "2", Name: "Two", Rating: 1000},
		}, nil).
		Once()

	var captured match.CompleteInput
	matchRepo.
		On("Complete", mock.Anything, mock.AnythingOfType("match.CompleteInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(match.CompleteInput) }).
		Return(nil).
		Once()

	result, err := service.Complete(context.Background(), "m1", "team2")
	if err != nil {
		t.Fatalf("complete match: %v", err)
	}
	if result.Match.Status != match.StatusCompleted || result.Match.Winner != "team2" || result.Match.CompletedAt == nil {
		t.Fatalf("unexpected completed match: %+v", result.Match)
	}
	if captured.Winner != match.WinnerTeam2 || len(captured.Updates) != 3 {
		t.Fatalf("unexpected complete input: %+v", captured)
	}

	byID := make(map[string]match.RatingUpdate, len(captured.Updates))
	for _, u := range captured.Updates {
		byID[u.DiscordID] = u
	}
	// Winners face team1's 1000 average, player 1 faces team2's 500 average.
	if u := byID["2"]; !u.Won || u.Rating != 1015 {
		t.Fatalf("unexpected update for player 2: %+v", u)
	}
	if u := byID["3"]; !u.Won || u.Rating != 30 || u.Name != "Player 3" {
		t.Fatalf("unexpected update for unknown player 3: %+v", u)
	}
	if u := byID["1"]; u.Won || u.Rating != 972 {
		t.Fatalf("unexpected update for player 1: %+v", u)
	}
}

func TestMatchService_Complete_ConflictWhenNotPending(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMatchServiceForTest(t)
	matchRepo.
		On("GetByPublicID", mock.Anything, "m1").
		Return(match.Match{PublicID: "m1", Status: match.StatusCancelled}, true, nil).
		Once()

	if _, err := service.Complete(context.Background(), "m1", "team1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMatchService_Complete_RaceMapsToConflict(t *testing.T) {
	t.Parallel()

	service, matchRepo, playerRepo := newMatchServiceForTest(t)
	matchRepo.
		On("GetByPublicID", mock.Anything, "m1").
		Return(match.Match{PublicID: "m1", Team1: []string{"1"}, Team2: []string{"2"}, Status: match.StatusPending}, true, nil).
		Once()
	playerRepo.On("GetByDiscordIDs", mock.Anything, mock.Anything).Return(nil, nil).Once()
	matchRepo.On("Complete", mock.Anything, mock.Anything).Return(match.ErrNotPending).Once()

	if _, err := service.Complete(context.Background(), "m1", "team1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMatchService_Complete_InvalidWinner(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchServiceForTest(t)
	if _, err := service.Complete(context.Background(), "m1", "draw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_Cancel(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMatchServiceForTest(t)
	matchRepo.
		On("GetByPublicID", mock.Anything, "m1").
		Return(match.Match{PublicID: "m1", Status: match.StatusPending}, true, nil).
		Once()
	matchRepo.On("Cancel", mock.Anything, "m1").Return(nil).Once()
	matchRepo.On("GetByPublicID", mock.Anything, "gone").Return(match.Match{}, false, nil).Once()

	got, err := service.Cancel(context.Background(), "m1")
	if err != nil {
		t.Fatalf("cancel match: %v", err)
	}
	if got.Status != match.StatusCancelled {
		t.Fatalf("unexpected status: %s", got.Status)
	}

	if _, err := service.Cancel(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
