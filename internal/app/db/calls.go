package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"rtchat/internal/app/store"
)

const callColumns = `id::text, caller_id::text, receiver_id::text, call_type, status, started_at, ended_at, duration`

func scanCall(row pgx.Row) (store.Call, error) {
	var (
		c        store.Call
		endedAt  pgtype.Timestamptz
		duration pgtype.Int4
	)

	if err := row.Scan(&c.ID, &c.CallerID, &c.ReceiverID, &c.CallType, &c.Status, &c.StartedAt, &endedAt, &duration); err != nil {
		return store.Call{}, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	if duration.Valid {
		d := int(duration.Int32)
		c.Duration = &d
	}

	return c, nil
}

// CreateCall inserts a call record.
func (s *Store) CreateCall(ctx context.Context, call store.Call) (store.Call, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO calls (id, caller_id, receiver_id, call_type, status, started_at, ended_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, COALESCE($6, NOW()), $7)
		RETURNING `+callColumns,
		call.ID, call.CallerID, call.ReceiverID, string(call.CallType), string(call.Status),
		nullTime(call.StartedAt), call.EndedAt,
	)

	saved, err := scanCall(row)
	return saved, wrap("create call", err)
}

// UpdateCallStatus sets the status of callID. When endedAt is given it is stored together with
// the call duration in whole seconds.
func (s *Store) UpdateCallStatus(ctx context.Context, callID string, status store.CallStatus, endedAt *time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE calls
		SET status   = $2,
		    ended_at = COALESCE($3::timestamptz, ended_at),
		    duration = CASE
		        WHEN $3::timestamptz IS NULL THEN duration
		        ELSE GREATEST(0, EXTRACT(EPOCH FROM ($3::timestamptz - started_at)))::int
		    END
		WHERE id = $1`,
		callID, string(status), endedAt,
	)
	if err != nil {
		return wrap("update call status", err)
	}

	if tag.RowsAffected() == 0 {
		return wrap("update call status", pgx.ErrNoRows)
	}

	return nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}
