package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"rtchat/internal/app/store"
)

const messageColumns = `id::text, content, type, sender_id::text, receiver_id::text, created_at,
	is_read, is_delivered, reply_to::text, file_url, file_name, file_size`

func scanMessage(row pgx.Row) (store.Message, error) {
	var (
		m        store.Message
		replyTo  pgtype.Text
		fileURL  pgtype.Text
		fileName pgtype.Text
		fileSize pgtype.Int8
	)

	err := row.Scan(
		&m.ID, &m.Content, &m.Type, &m.SenderID, &m.ReceiverID, &m.CreatedAt,
		&m.IsRead, &m.IsDelivered, &replyTo, &fileURL, &fileName, &fileSize,
	)
	if err != nil {
		return store.Message{}, err
	}

	m.ReplyTo = replyTo.String
	m.FileURL = fileURL.String
	m.FileName = fileName.String
	m.FileSize = fileSize.Int64

	return m, nil
}

// CreateMessage inserts msg and returns the stored row. Unknown participants yield store.ErrNotFound.
func (s *Store) CreateMessage(ctx context.Context, msg store.Message) (store.Message, error) {
	fileSize := pgtype.Int8{Int64: msg.FileSize, Valid: msg.FileSize > 0}

	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (
			id, content, type, sender_id, receiver_id, created_at,
			is_read, is_delivered, reply_to, file_url, file_name, file_size
		)
		VALUES (
			COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, COALESCE($6, NOW()),
			$7, $8, NULLIF($9, '')::uuid, NULLIF($10, ''), NULLIF($11, ''), $12
		)
		RETURNING `+messageColumns,
		msg.ID, msg.Content, string(msg.Type), msg.SenderID, msg.ReceiverID, nullTime(msg.CreatedAt),
		msg.IsRead, msg.IsDelivered, msg.ReplyTo, msg.FileURL, msg.FileName, fileSize,
	)

	saved, err := scanMessage(row)
	return saved, wrap("create message", err)
}

// MarkMessageRead sets is_read on messageID.
func (s *Store) MarkMessageRead(ctx context.Context, messageID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, messageID)
	if err != nil {
		return wrap("mark message read", err)
	}

	if tag.RowsAffected() == 0 {
		return wrap("mark message read", pgx.ErrNoRows)
	}

	return nil
}

// ListMessages returns one page ordered by created_at descending together with the total count.
func (s *Store) ListMessages(ctx context.Context, offset, limit int) ([]store.Message, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
		return nil, 0, wrap("count messages", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC, id DESC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, 0, wrap("list messages", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Message, error) {
		return scanMessage(row)
	})
	if err != nil {
		return nil, 0, wrap("list messages", err)
	}

	return messages, total, nil
}
