// Package audit persists a trail of console actions. Recording is
// best-effort: a failed insert is logged and never blocks the user action.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry represents a record stored in console_audit.
type Entry struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Recorder writes entries into console_audit.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder. A nil pool disables recording, which
// keeps handler wiring uniform in tests.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// Record persists the entry.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.pool == nil {
		return
	}
	if entry.Action == "" || entry.Entity == "" {
		return
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		r.warn("encode audit meta", err)
		return
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO console_audit (actor_id, action, entity, entity_id, meta, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metaJSON, at)
	if err != nil {
		r.warn("record audit entry", err)
	}
}

func (r *Recorder) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, slog.Any("error", err))
	}
}
