package storage

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/evo-warden/internal/core"
)

// eventRecorder appends evolution events to the database. Recording is
// best-effort: failures are logged and swallowed so telemetry never aborts
// the operation that produced it.
type eventRecorder struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewEventRecorder creates a database-backed core.EventRecorder.
func NewEventRecorder(db *sqlx.DB, logger *slog.Logger) core.EventRecorder {
	return &eventRecorder{db: db, logger: logger}
}

func (r *eventRecorder) Record(ctx context.Context, event *core.EvolutionEvent) {
	data, err := toJSON(event.Data)
	if err != nil {
		r.logger.Error("failed to encode event data", "event", event.Type, "error", err)
		return
	}

	query := `
		INSERT INTO evolution_events (id, tenant, type, severity, title, description, data, triggered_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Tenant, event.Type, event.Severity, event.Title, event.Description, data, event.TriggeredBy, event.CreatedAt)
	if err != nil {
		r.logger.Error("failed to record evolution event", "event", event.Type, "error", err)
	}
}

// ListEvents returns the tenant's most recent events, newest first.
func (s *postgresStore) ListEvents(ctx context.Context, tenant string, limit int) ([]*core.EvolutionEvent, error) {
	query := `
		SELECT id, tenant, type, severity, title, description, data, triggered_by, created_at
		FROM evolution_events
		WHERE tenant = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*core.EvolutionEvent
	for rows.Next() {
		var e core.EvolutionEvent
		var data []byte
		if err := rows.Scan(&e.ID, &e.Tenant, &e.Type, &e.Severity, &e.Title, &e.Description, &data, &e.TriggeredBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := fromJSON(data, &e.Data); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
