package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
)

const userColumns = `id::text, email, username, avatar, is_online, last_seen, created_at`

func scanUser(row pgx.Row, extra ...any) (user.User, error) {
	var (
		u         user.User
		avatar    pgtype.Text
		lastSeen  pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	dest := append([]any{&u.ID, &u.Email, &u.Username, &avatar, &u.IsOnline, &lastSeen, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return user.User{}, err
	}

	u.Avatar = avatar.String
	if lastSeen.Valid {
		t := lastSeen.Time
		u.LastSeen = &t
	}
	if createdAt.Valid {
		t := createdAt.Time
		u.CreatedAt = &t
	}

	return u, nil
}

// CreateUser inserts a new account. A duplicate email yields store.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, params store.CreateUserParams) (user.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, avatar)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING `+userColumns,
		params.Email, params.Username, params.PasswordHash, params.Avatar,
	)

	u, err := scanUser(row)
	return u, wrap("create user", err)
}

// FindUserByEmail returns the account including its password hash.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (user.Account, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, email)

	var account user.Account
	u, err := scanUser(row, &account.PasswordHash)
	if err != nil {
		return user.Account{}, wrap("find user by email", err)
	}

	account.User = u
	return account, nil
}

// FindUserByID returns the public profile of id.
func (s *Store) FindUserByID(ctx context.Context, id string) (user.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	return u, wrap("find user by id", err)
}

// ListUsers returns every user except excludeID ordered by username.
func (s *Store) ListUsers(ctx context.Context, excludeID string) ([]user.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id::text <> $1 ORDER BY username ASC`, excludeID)
	if err != nil {
		return nil, wrap("list users", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.User, error) {
		return scanUser(row)
	})
	return users, wrap("list users", err)
}

// SetOnline records the online flag and refreshes last_seen.
func (s *Store) SetOnline(ctx context.Context, userID string, online bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET is_online = $2, last_seen = NOW() WHERE id = $1`, userID, online)
	if err != nil {
		return wrap("set online", err)
	}

	if tag.RowsAffected() == 0 {
		return wrap("set online", pgx.ErrNoRows)
	}

	return nil
}
