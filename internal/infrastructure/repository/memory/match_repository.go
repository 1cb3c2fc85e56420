package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
)

// MatchRepository keeps matches in memory and shares the player store so a
// completion updates ratings and the match under one lock.
type MatchRepository struct {
	mu      sync.Mutex
	players *PlayerRepository
	matches map[string]match.Match
	nextID  int64
	now     func() time.Time
}

func NewMatchRepository(players *PlayerRepository) *MatchRepository {
	if players == nil {
		players = NewPlayerRepository(nil)
	}
	return &MatchRepository{
		players: players,
		matches: make(map[string]match.Match),
		now:     time.Now,
	}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[m.PublicID]; exists {
		return match.Match{}, fmt.Errorf("match public id %s already exists", m.PublicID)
	}
	r.nextID++
	m.ID = r.nextID
	m.Team1 = append([]string(nil), m.Team1...)
	m.Team2 = append([]string(nil), m.Team2...)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now().UTC()
	}

	r.players.mu.Lock()
	for _, discordID := range m.PlayerIDs() {
		r.players.ensureLocked(discordID, m.Division, m.CreatedAt)
	}
	r.players.mu.Unlock()

	r.matches[m.PublicID] = m
	return m, nil
}

func (r *MatchRepository) GetByPublicID(_ context.Context, publicID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[publicID]
	return m, ok, nil
}

func (r *MatchRepository) ListRecent(_ context.Context, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) Complete(_ context.Context, input match.CompleteInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[input.PublicID]
	if !ok || m.Status != match.StatusPending {
		return match.ErrNotPending
	}

	now := r.now().UTC()
	r.players.mu.Lock()
	for _, u := range input.Updates {
		p := r.players.ensureLocked(u.DiscordID, m.Division, now)
		if strings.TrimSpace(p.Name) == "" {
			p.Name = u.Name
		}
		p.Rating = u.Rating
		if u.Won {
			p.Wins++
		} else {
			p.Losses++
		}
		updatedAt := now
		p.UpdatedAt = &updatedAt
		r.players.players[u.DiscordID] = p
	}
	r.players.mu.Unlock()

	m.Status = match.StatusCompleted
	m.Winner = string(input.Winner)
	m.CompletedAt = &now
	r.matches[m.PublicID] = m
	return nil
}

func (r *MatchRepository) Cancel(_ context.Context, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[publicID]
	if !ok || m.Status != match.StatusPending {
		return match.ErrNotPending
	}
	m.Status = match.StatusCancelled
	r.matches[publicID] = m
	return nil
}

var _ match.Repository = (*MatchRepository)(nil)
var _ player.Repository = (*PlayerRepository)(nil)
