package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListByDivision(ctx context.Context, division string) ([]Player, error)
	ListLeaderboard(ctx context.Context, division string, limit int) ([]Player, error)
	GetByDiscordID(ctx context.Context, discordID string) (Player, bool, error)
	GetByDiscordIDs(ctx context.Context, discordIDs []string) ([]Player, error)
	// ListByLastActivity returns every player, least recently active first.
	ListByLastActivity(ctx context.Context) ([]Player, error)
	DeleteByDiscordIDs(ctx context.Context, discordIDs []string) (int64, error)
	Upsert(ctx context.Context, input UpsertInput) error
	// UpdateName reports whether a row was updated.
	UpdateName(ctx context.Context, discordID, name string) (bool, error)
}
