package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rtchat/internal/app/store"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique constraint violation (code 23505).
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// wrap annotates err with op and maps driver errors onto the store sentinels. Missing rows, ids
// that are not UUIDs and dangling references become store.ErrNotFound; unique violations
// become store.ErrConflict.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, errors.Join(store.ErrConflict, err))
	case codeInvalidText, codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", op, errors.Join(store.ErrNotFound, err))
	}

	return fmt.Errorf("%s: %w", op, err)
}
