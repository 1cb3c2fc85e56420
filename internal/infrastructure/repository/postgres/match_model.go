package postgres

import (
	"time"

	"github.com/riskibarqy/prissleague/internal/domain/match"
)

type matchTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Division    string     `db:"division"`
	Team1IDs    string     `db:"team1_ids"`
	Team2IDs    string     `db:"team2_ids"`
	RoomCode    string     `db:"room_code"`
	Status      string     `db:"status"`
	Winner      string     `db:"winner"`
	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.ID,
		PublicID:    row.PublicID,
		Division:    row.Division,
		Team1:       match.ParseRoster(row.Team1IDs),
		Team2:       match.ParseRoster(row.Team2IDs),
		RoomCode:    row.RoomCode,
		Status:      match.Status(row.Status),
		Winner:      row.Winner,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
}
