package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prissleague/internal/domain/player"
	qb "github.com/riskibarqy/prissleague/internal/platform/querybuilder"
)

const playersTable = "players"

type PlayerRepository struct {
	db *sqlx.DB
}

// Rows written by older tooling may hold NULL names, divisions or counters.
var playerSelectColumns = []string{
	"discord_id::text AS discord_id",
	"COALESCE(name, '') AS name",
	"COALESCE(division, 'solo') AS division",
	"COALESCE(solo_elo, 0) AS solo_elo",
	"COALESCE(solo_wins, 0) AS solo_wins",
	"COALESCE(solo_losses, 0) AS solo_losses",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByDivision(ctx context.Context, division string) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.Eq("division", division)).
		OrderBy("solo_elo DESC", "discord_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by division query: %w", err)
	}

	return r.selectPlayers(ctx, "select players by division", query, args)
}

func (r *PlayerRepository) ListLeaderboard(ctx context.Context, division string, limit int) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.Eq("division", division)).
		OrderBy("solo_elo DESC", "discord_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leaderboard query: %w", err)
	}

	return r.selectPlayers(ctx, "select leaderboard", query, args)
}

func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.Eq("discord_id", discordID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByDiscordIDs(ctx context.Context, discordIDs []string) ([]player.Player, error) {
	if len(discordIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.In("discord_id", stringSliceToAny(discordIDs))).
		OrderBy("discord_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	return r.selectPlayers(ctx, "select players by ids", query, args)
}

func (r *PlayerRepository) ListByLastActivity(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		OrderBy("COALESCE(updated_at, created_at) ASC NULLS FIRST", "discord_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by last activity query: %w", err)
	}

	return r.selectPlayers(ctx, "select players by last activity", query, args)
}

func (r *PlayerRepository) DeleteByDiscordIDs(ctx context.Context, discordIDs []string) (int64, error) {
	if len(discordIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.DeleteFrom(playersTable).
		Where(qb.In("discord_id", stringSliceToAny(discordIDs))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete players query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete players: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted players count: %w", err)
	}

	return deleted, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, input player.UpsertInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	query, args, err := upsertPlayerQuery(input)
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) UpdateName(ctx context.Context, discordID, name string) (bool, error) {
	query, args, err := qb.Update(playersTable).
		Set("name", name).
		Where(qb.Eq("discord_id", discordID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update player name query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update player name: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read updated player count: %w", err)
	}

	return updated > 0, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, op, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func upsertPlayerQuery(input player.UpsertInput) (string, []any, error) {
	return qb.InsertInto(playersTable).
		Columns("discord_id", "name").
		Values(strings.TrimSpace(input.DiscordID), strings.TrimSpace(input.Name)).
		Suffix("ON CONFLICT (discord_id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()").
		ToSQL()
}
