// Package sqlite provides a SQLite-backed race entry store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	"github.com/sailsizzle/regatta/internal/adapters/repository/sqlite/migrations"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store persists rows in SQLite as the same strings the spreadsheet holds.
type Store struct {
	sqlDB *sql.DB
}

var _ repository.Store = (*Store)(nil)

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: storage path", repository.ErrMissingSetting)
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serializes writers; one connection keeps appends in order.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Append inserts one row.
func (s *Store) Append(ctx context.Context, row repository.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return repository.ErrClosed
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO race_entries (
		   race_date,
		   boat_name,
		   skipper_name,
		   boat_type,
		   start_time,
		   finish_time,
		   elapsed_time,
		   corrected_time,
		   comments,
		   submitted_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row[repository.ColRaceDate],
		row[repository.ColBoatName],
		row[repository.ColSkipperName],
		row[repository.ColBoatType],
		row[repository.ColStartTime],
		row[repository.ColFinishTime],
		row[repository.ColElapsed],
		row[repository.ColCorrected],
		row[repository.ColComments],
		row[repository.ColSubmittedAt],
	)
	if err != nil {
		return fmt.Errorf("insert race entry: %w", err)
	}
	return nil
}

// ReadAll returns every row in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, repository.ErrClosed
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT race_date, boat_name, skipper_name, boat_type, start_time,
		        finish_time, elapsed_time, corrected_time, comments, submitted_at
		   FROM race_entries
		  ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query race entries: %w", err)
	}
	defer rows.Close()

	var out []repository.Row
	for rows.Next() {
		var r repository.Row
		if err := rows.Scan(&r[0], &r[1], &r[2], &r[3], &r[4], &r[5], &r[6], &r[7], &r[8], &r[9]); err != nil {
			return nil, fmt.Errorf("scan race entry: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate race entries: %w", err)
	}
	return out, nil
}

// Backend implements repository.Store.
func (s *Store) Backend() string { return "sqlite" }

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
