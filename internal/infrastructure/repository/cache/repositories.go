package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	basecache "github.com/riskibarqy/prissleague/internal/platform/cache"
)

const (
	playerKeyPrefix      = "player:"
	leaderboardKeyPrefix = "player:leaderboard:"
	matchKeyPrefix       = "match:id:"
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByDivision(ctx context.Context, division string) ([]player.Player, error) {
	return r.next.ListByDivision(ctx, division)
}

func (r *PlayerRepository) ListLeaderboard(ctx context.Context, division string, limit int) ([]player.Player, error) {
	key := leaderboardKeyPrefix + division + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListLeaderboard(ctx, division, limit)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID string) (player.Player, bool, error) {
	key := playerKeyPrefix + "id:" + discordID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByDiscordID(ctx, discordID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

func (r *PlayerRepository) GetByDiscordIDs(ctx context.Context, discordIDs []string) ([]player.Player, error) {
	return r.next.GetByDiscordIDs(ctx, discordIDs)
}

func (r *PlayerRepository) ListByLastActivity(ctx context.Context) ([]player.Player, error) {
	return r.next.ListByLastActivity(ctx)
}

func (r *PlayerRepository) DeleteByDiscordIDs(ctx context.Context, discordIDs []string) (int64, error) {
	deleted, err := r.next.DeleteByDiscordIDs(ctx, discordIDs)
	if err != nil {
		return 0, err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return deleted, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, input player.UpsertInput) error {
	if err := r.next.Upsert(ctx, input); err != nil {
		return err
	}
	r.cache.Delete(ctx, playerKeyPrefix+"id:"+input.DiscordID)
	r.cache.DeletePrefix(ctx, leaderboardKeyPrefix)
	return nil
}

func (r *PlayerRepository) UpdateName(ctx context.Context, discordID, name string) (bool, error) {
	updated, err := r.next.UpdateName(ctx, discordID, name)
	if err != nil {
		return false, err
	}
	r.cache.Delete(ctx, playerKeyPrefix+"id:"+discordID)
	r.cache.DeletePrefix(ctx, leaderboardKeyPrefix)
	return updated, nil
}

// MatchRepository drops cached player reads whenever a match write can
// change ratings or create player rows.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	created, err := r.next.Create(ctx, m)
	if err != nil {
		return match.Match{}, err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return created, nil
}

func (r *MatchRepository) GetByPublicID(ctx context.Context, publicID string) (match.Match, bool, error) {
	key := matchKeyPrefix + publicID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByPublicID(ctx, publicID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]match.Match, error) {
	return r.next.ListRecent(ctx, limit)
}

func (r *MatchRepository) Complete(ctx context.Context, input match.CompleteInput) error {
	err := r.next.Complete(ctx, input)
	// A lost race still means the cached copy is stale.
	r.cache.Delete(ctx, matchKeyPrefix+input.PublicID)
	if err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return nil
}

func (r *MatchRepository) Cancel(ctx context.Context, publicID string) error {
	err := r.next.Cancel(ctx, publicID)
	r.cache.Delete(ctx, matchKeyPrefix+publicID)
	return err
}

var (
	_ player.Repository = (*PlayerRepository)(nil)
	_ match.Repository  = (*MatchRepository)(nil)
)
