package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prissleague/internal/domain/match"
	qb "github.com/riskibarqy/prissleague/internal/platform/querybuilder"
)

const matchesTable = "solo_matches"

var matchSelectColumns = []string{
	"id",
	"COALESCE(public_id, id::text) AS public_id",
	"COALESCE(division, 'solo') AS division",
	"COALESCE(team1_ids::text, '') AS team1_ids",
	"COALESCE(team2_ids::text, '') AS team2_ids",
	"COALESCE(room_code, '') AS room_code",
	"COALESCE(status, 'pending') AS status",
	"COALESCE(winner, '') AS winner",
	"created_at",
	"completed_at",
}

// Completed rows bump the win or loss counter by one and keep an existing name.
const upsertRatingSuffix = `ON CONFLICT (discord_id) DO UPDATE SET
	solo_elo = EXCLUDED.solo_elo,
	solo_wins = players.solo_wins + EXCLUDED.solo_wins,
	solo_losses = players.solo_losses + EXCLUDED.solo_losses,
	updated_at = EXCLUDED.updated_at,
	name = CASE WHEN COALESCE(players.name, '') = '' THEN EXCLUDED.name ELSE players.name END`

type MatchRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db, now: time.Now}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Match{}, fmt.Errorf("begin create match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ensure := qb.InsertInto(playersTable).Columns("discord_id", "division")
	for _, discordID := range m.PlayerIDs() {
		ensure.Values(discordID, m.Division)
	}
	ensureSQL, ensureArgs, err := ensure.Suffix("ON CONFLICT (discord_id) DO NOTHING").ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build ensure players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, ensureSQL, ensureArgs...); err != nil {
		return match.Match{}, fmt.Errorf("ensure rostered players: %w", err)
	}

	insertSQL, insertArgs, err := qb.InsertInto(matchesTable).
		Columns("public_id", "division", "team1_ids", "team2_ids", "room_code", "status", "created_at").
		Values(m.PublicID, m.Division, match.FormatRoster(m.Team1), match.FormatRoster(m.Team2), m.RoomCode, string(m.Status), m.CreatedAt).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, insertSQL, insertArgs...).Scan(&m.ID); err != nil {
		if isUniqueViolation(err) {
			return match.Match{}, fmt.Errorf("match public id %s already exists: %w", m.PublicID, err)
		}
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return match.Match{}, fmt.Errorf("commit create match tx: %w", err)
	}

	return m, nil
}

func (r *MatchRepository) GetByPublicID(ctx context.Context, publicID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From(matchesTable).
		Where(qb.Eq("public_id", publicID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From(matchesTable).
		OrderBy("id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

// Complete closes the match first so a concurrent completion of the same
// match finds no pending row and changes nothing.
func (r *MatchRepository) Complete(ctx context.Context, input match.CompleteInput) error {
	now := r.now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	closeSQL, closeArgs, err := qb.Update(matchesTable).
		Set("status", string(match.StatusCompleted)).
		Set("winner", string(input.Winner)).
		Set("completed_at", now).
		Where(
			qb.Eq("public_id", input.PublicID),
			qb.Eq("status", string(match.StatusPending)),
		).
		Suffix("RETURNING COALESCE(division, 'solo')").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete match query: %w", err)
	}

	var division string
	if err := tx.QueryRowxContext(ctx, closeSQL, closeArgs...).Scan(&division); err != nil {
		if isNotFound(err) {
			return match.ErrNotPending
		}
		return fmt.Errorf("complete match: %w", err)
	}

	if len(input.Updates) > 0 {
		upsert := qb.InsertInto(playersTable).
			Columns("discord_id", "name", "division", "solo_elo", "solo_wins", "solo_losses", "created_at", "updated_at")
		for _, u := range input.Updates {
			wins, losses := 0, 1
			if u.Won {
				wins, losses = 1, 0
			}
			upsert.Values(u.DiscordID, u.Name, division, u.Rating, wins, losses, now, now)
		}
		upsertSQL, upsertArgs, err := upsert.Suffix(upsertRatingSuffix).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert ratings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
			return fmt.Errorf("upsert ratings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete match tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Cancel(ctx context.Context, publicID string) error {
	query, args, err := qb.Update(matchesTable).
		Set("status", string(match.StatusCancelled)).
		Where(
			qb.Eq("public_id", publicID),
			qb.Eq("status", string(match.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build cancel match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("cancel match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read cancelled match count: %w", err)
	}
	if affected == 0 {
		return match.ErrNotPending
	}

	return nil
}
