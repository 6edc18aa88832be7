package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rtchat/internal/app/store"
)

// DBTX is the subset of *pgxpool.Pool used by Store, so a pgx.Tx can serve as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements every store contract against PostgreSQL.
type Store struct {
	db DBTX
}

var (
	_ store.Stores = (*Store)(nil)
	_ DBTX         = (*pgxpool.Pool)(nil)
)

// NewStore returns a Store backed by db.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}
