package match

import "context"

// RatingUpdate is the new standing of one player after a completed match.
type RatingUpdate struct {
	DiscordID string
	Name      string
	Rating    int
	Won       bool
}

type CompleteInput struct {
	PublicID string
	Winner   Winner
	Updates  []RatingUpdate
}

// Repository describes match persistence needs from use cases.
type Repository interface {
	// Create stores a pending match and makes sure every rostered player has a row.
	Create(ctx context.Context, m Match) (Match, error)
	GetByPublicID(ctx context.Context, publicID string) (Match, bool, error)
	ListRecent(ctx context.Context, limit int) ([]Match, error)
	// Complete applies rating updates and closes the match atomically.
	// It returns ErrNotPending when the match was already finalized.
	Complete(ctx context.Context, input CompleteInput) error
	Cancel(ctx context.Context, publicID string) error
}
