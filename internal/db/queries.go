package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/logger"
	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const sqliteTimeFormat = "2006-01-02 15:04:05"

const upsertRollupSQL = `
	INSERT INTO month_rollups (month, tokens, messages, sessions, tool_calls, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(month) DO UPDATE SET
		tokens = excluded.tokens,
		messages = excluded.messages,
		sessions = excluded.sessions,
		tool_calls = excluded.tool_calls,
		updated_at = excluded.updated_at
`

var timeFormats = []string{
	sqliteTimeFormat,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UpsertRollup inserts or replaces the totals stored for r.Month.
// A zero UpdatedAt is stamped with the current time.
func (db *DB) UpsertRollup(ctx context.Context, r models.MonthRollup) error {
	if r.Month == "" {
		return errors.New("rollup month is required")
	}

	updated := r.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := db.ExecContext(ctx, upsertRollupSQL,
		r.Month,
		r.Tokens,
		r.Messages,
		r.Sessions,
		r.ToolCalls,
		updated.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rollup %s: %w", r.Month, err)
	}
	return nil
}

// UpsertRollups stores several rollups in one transaction.
func (db *DB) UpsertRollups(ctx context.Context, rollups []models.MonthRollup) error {
	if len(rollups) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertRollupSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare rollup upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(sqliteTimeFormat)
	for _, r := range rollups {
		updated := now
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.UTC().Format(sqliteTimeFormat)
		}
		if _, err := stmt.ExecContext(ctx, r.Month, r.Tokens, r.Messages, r.Sessions, r.ToolCalls, updated); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert rollup %s: %w", r.Month, err)
		}
	}

	return tx.Commit()
}

// GetRollup returns the stored totals for month, or ErrNotFound.
func (db *DB) GetRollup(ctx context.Context, month string) (*models.MonthRollup, error) {
	query := `
		SELECT month, tokens, messages, sessions, tool_calls, updated_at
		FROM month_rollups
		WHERE month = ?
	`

	r, err := scanRollup(db.QueryRowContext(ctx, query, month))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rollup %s: %w", month, err)
	}
	return r, nil
}

// GetRollups returns up to limit rollups, newest month first.
// A limit of zero or less returns every row.
func (db *DB) GetRollups(ctx context.Context, limit int) ([]models.MonthRollup, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT month, tokens, messages, sessions, tool_calls, updated_at
		FROM month_rollups
		ORDER BY month DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rollups: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var rollups []models.MonthRollup
	for rows.Next() {
		r, err := scanRollup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rollup: %w", err)
		}
		rollups = append(rollups, *r)
	}

	return rollups, rows.Err()
}

// DeleteRollupsBefore removes rollups for months strictly older than month
// and returns how many were removed.
func (db *DB) DeleteRollupsBefore(ctx context.Context, month string) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM month_rollups WHERE month < ?", month)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rollups before %s: %w", month, err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRollup(row rowScanner) (*models.MonthRollup, error) {
	var r models.MonthRollup
	var updated string

	if err := row.Scan(&r.Month, &r.Tokens, &r.Messages, &r.Sessions, &r.ToolCalls, &updated); err != nil {
		return nil, err
	}
	if t, ok := parseTimeString(updated); ok {
		r.UpdatedAt = t
	}
	return &r, nil
}
