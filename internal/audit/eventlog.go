package audit

import (
	"context"
	"database/sql"
	"time"
)

// Event is one appended authoring action. The log is write-once; nothing
// updates or deletes rows.
type Event struct {
	Offset    int64  `json:"offset"`
	Actor     string `json:"actor"`
	Action    string `json:"action"` // e.g., question.insert, case.reorder
	Key       string `json:"key"`    // record id the action touched
	DataJSON  string `json:"data,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (actor, action, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.Actor, e.Action, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Recent returns the newest events, newest first.
func (r *EventRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", actor, action, key, data, created_at
		 FROM event_log ORDER BY "offset" DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Actor, &e.Action, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
