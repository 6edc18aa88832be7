/*
Package store defines the persistence contracts the real-time core and the REST API depend on,
together with the entities that flow through them.

Implementations live elsewhere (see package db); the real-time core only ever sees these interfaces.
*/
package store

import (
	"context"
	"errors"
	"time"

	"rtchat/internal/app/user"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("store: conflict")
)

// CreateUserParams carries the fields required to create an account.
type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	Avatar       string
}

// UserStore persists accounts and their presence flag.
type UserStore interface {
	CreateUser(ctx context.Context, params CreateUserParams) (user.User, error)
	FindUserByEmail(ctx context.Context, email string) (user.Account, error)
	FindUserByID(ctx context.Context, id string) (user.User, error)
	ListUsers(ctx context.Context, excludeID string) ([]user.User, error)

	// SetOnline records the online flag and refreshes last_seen.
	SetOnline(ctx context.Context, userID string, online bool) error
}

// MessageStore persists chat messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg Message) (Message, error)
	MarkMessageRead(ctx context.Context, messageID string) error

	// ListMessages returns a page ordered by createdAt descending and the total row count.
	ListMessages(ctx context.Context, offset, limit int) ([]Message, int, error)
}

// CallStore persists call bookkeeping records.
type CallStore interface {
	CreateCall(ctx context.Context, call Call) (Call, error)
	UpdateCallStatus(ctx context.Context, callID string, status CallStatus, endedAt *time.Time) error
}

// Stores bundles every contract; the PostgreSQL implementation satisfies all of them.
type Stores interface {
	UserStore
	MessageStore
	CallStore
}
