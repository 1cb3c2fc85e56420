package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prissleague/internal/domain/player"
)

// BootstrapSeed inserts the given players when the players table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, players []player.Player) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players`); err != nil {
		return 0, fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 || len(players) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for _, p := range players {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (discord_id, name, division, solo_elo, solo_wins, solo_losses, created_at, updated_at)
VALUES (:discord_id, :name, :division, :solo_elo, :solo_wins, :solo_losses, COALESCE(:created_at, NOW()), :updated_at)
ON CONFLICT (discord_id) DO NOTHING`, map[string]any{
			"discord_id":  p.DiscordID,
			"name":        p.Name,
			"division":    p.Division,
			"solo_elo":    p.Rating,
			"solo_wins":   p.Wins,
			"solo_losses": p.Losses,
			"created_at":  p.CreatedAt,
			"updated_at":  p.UpdatedAt,
		})
		if err != nil {
			return 0, fmt.Errorf("bind seed player %s query: %w", p.DiscordID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		res, err := tx.ExecContext(ctx, sqlQuery, args...)
		if err != nil {
			return 0, fmt.Errorf("seed player %s: %w", p.DiscordID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}

	return inserted, nil
}
