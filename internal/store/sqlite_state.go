package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"planboard/internal/model"
	"planboard/internal/store/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the web server and a TUI share one workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s Store) loadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	seeded := readMeta(ctx, db, "seeded") == "1"
	if !seeded {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects`).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			// First open of a workspace: start from the demo data, like a fresh page load.
			seed := Seed()
			if err := writeState(ctx, db, seed); err != nil {
				return nil, err
			}
			return seed, nil
		}
	}

	out := &DB{Version: 1}
	if v := readMeta(ctx, db, "version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	xs, err := readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	for i := range xs {
		if xs[i].Timeline == nil {
			xs[i].Timeline = []model.TimelineEntry{}
		}
	}
	if xs == nil {
		xs = []model.Project{}
	}
	out.Projects = xs
	return out, nil
}

func (s Store) saveSQLite(ctx context.Context, st *DB) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return writeState(ctx, db, st)
}

func writeState(ctx context.Context, db *sql.DB, st *DB) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = 1
	}
	meta := map[string]string{
		"version": strconv.Itoa(version),
		"seeded":  "1",
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	// Replace-all: the project list is small and ordering is positional.
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i, p := range st.Projects {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, position, status, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, i, string(p.Status), string(raw), nowMs); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func readMeta(ctx context.Context, db *sql.DB, k string) string {
	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
	return strings.TrimSpace(v)
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
