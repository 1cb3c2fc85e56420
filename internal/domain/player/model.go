package player

import (
	"fmt"
	"strings"
	"time"
)

const DefaultDivision = "solo"

// Player is a ranked community member keyed by chat platform user id.
type Player struct {
	DiscordID string
	Name      string
	Division  string
	Rating    int
	Wins      int
	Losses    int
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// LastActivity is updated_at, else created_at; nil when neither is known.
func (p Player) LastActivity() *time.Time {
	if p.UpdatedAt != nil {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// InactiveSince reports whether the player has had no activity since cutoff.
// Players without any timestamp count as inactive.
func (p Player) InactiveSince(cutoff time.Time) bool {
	last := p.LastActivity()
	return last == nil || last.Before(cutoff)
}

// PlaceholderName is the display name given to players known only by id.
func PlaceholderName(discordID string) string {
	id := strings.TrimSpace(discordID)
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "Player " + id
}

// UpsertInput carries identity fields synced from the auth provider.
type UpsertInput struct {
	DiscordID string
	Name      string
}

func (in UpsertInput) Validate() error {
	if strings.TrimSpace(in.DiscordID) == "" {
		return fmt.Errorf("player discord id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}
