package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"planboard/internal/model"

	"github.com/oklog/ulid/v2"
)

var errEventContract = errors.New("event contract")

// AppendEvent records a state change in the audit log. Ephemeral stores drop events.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" {
		return errors.Join(errEventContract, errors.New("missing type"))
	}
	if entityID == "" {
		return errors.Join(errEventContract, errors.New("missing entity id"))
	}
	if s.Ephemeral() {
		return nil
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, `INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		ulid.Make().String(), now.UnixMilli(), typ, entityID, string(pb))
	return err
}

// ReadEvents returns up to limit events, newest first. limit <= 0 means all.
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if s.Ephemeral() {
		return []model.Event{}, nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events ORDER BY id DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev      model.Event
			tsMs    int64
			payload string
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC().Format(time.RFC3339Nano)
		var p any
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
