package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
	now     func() time.Time
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[string]player.Player, len(players))
	for _, p := range players {
		if p.Division == "" {
			p.Division = player.DefaultDivision
		}
		index[p.DiscordID] = p
	}

	return &PlayerRepository{
		players: index,
		now:     time.Now,
	}
}

func (r *PlayerRepository) ListByDivision(_ context.Context, division string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Division == division {
			out = append(out, p)
		}
	}
	sortByRating(out)

	return out, nil
}

func (r *PlayerRepository) ListLeaderboard(ctx context.Context, division string, limit int) ([]player.Player, error) {
	out, _ := r.ListByDivision(ctx, division)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PlayerRepository) GetByDiscordID(_ context.Context, discordID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[discordID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByDiscordIDs(_ context.Context, discordIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(discordIDs))
	for _, id := range discordIDs {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) ListByLastActivity(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastActivity(), out[j].LastActivity()
		switch {
		case a == nil && b == nil:
			return out[i].DiscordID < out[j].DiscordID
		case a == nil:
			return true
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	return out, nil
}

func (r *PlayerRepository) DeleteByDiscordIDs(_ context.Context, discordIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range discordIDs {
		if _, ok := r.players[id]; ok {
			delete(r.players, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, input player.UpsertInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.TrimSpace(input.DiscordID)
	now := r.now().UTC()
	p, ok := r.players[id]
	if !ok {
		p = player.Player{DiscordID: id, Division: player.DefaultDivision, CreatedAt: &now}
	} else {
		p.UpdatedAt = &now
	}
	p.Name = strings.TrimSpace(input.Name)
	r.players[id] = p
	return nil
}

func (r *PlayerRepository) UpdateName(_ context.Context, discordID, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[discordID]
	if !ok {
		return false, nil
	}
	p.Name = name
	r.players[discordID] = p
	return true, nil
}

// ensureLocked inserts an empty row for an unknown player. Callers hold mu.
func (r *PlayerRepository) ensureLocked(discordID, division string, at time.Time) player.Player {
	p, ok := r.players[discordID]
	if ok {
		return p
	}
	p = player.Player{DiscordID: discordID, Division: division, CreatedAt: &at}
	r.players[discordID] = p
	return p
}

func sortByRating(items []player.Player) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		return items[i].DiscordID < items[j].DiscordID
	})
}
