package postgres

import (
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/player"
)

type playerTableModel struct {
	DiscordID string     `db:"discord_id"`
	Name      string     `db:"name"`
	Division  string     `db:"division"`
	Rating    int        `db:"solo_elo"`
	Wins      int        `db:"solo_wins"`
	Losses    int        `db:"solo_losses"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		DiscordID: row.DiscordID,
		Name:      row.Name,
		Division:  row.Division,
		Rating:    row.Rating,
		Wins:      row.Wins,
		Losses:    row.Losses,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
