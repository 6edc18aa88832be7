package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	t.Run("known code", func(t *testing.T) {
		err := NewError(ErrUserAlreadyExists)
		assert.Equal(t, ErrUserAlreadyExists, err.Code)
		assert.Equal(t, http.StatusConflict, err.Status)
	})

	t.Run("unknown code falls back to ErrUnknown", func(t *testing.T) {
		err := NewError(424242)
		assert.Equal(t, ErrUnknown, err.Code)
		assert.Equal(t, http.StatusInternalServerError, err.Status)
	})

	t.Run("missing status defaults to 200", func(t *testing.T) {
		err := NewError(ErrInvalidEventPayload)
		assert.Equal(t, http.StatusOK, err.Status)
	})

	t.Run("details fill message template", func(t *testing.T) {
		err := NewError(ErrUnsupportedEvent, "room:join")
		assert.Equal(t, "Unsupported event: room:join", err.Message)
	})

	t.Run("returned copies do not share state with the table", func(t *testing.T) {
		first := NewError(ErrUnsupportedEvent, "a")
		second := NewError(ErrUnsupportedEvent, "b")
		assert.NotEqual(t, first.Message, second.Message)
		assert.Equal(t, "Unsupported event: %s", errorMap[ErrUnsupportedEvent].Message)
	})
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("routing: %w", NewError(ErrCallTypeInvalid))
	assert.Equal(t, ErrCallTypeInvalid, From(wrapped).Code)

	assert.Equal(t, ErrUnknown, From(errors.New("boom")).Code)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("delete: %w", NewError(ErrForbidden))

	assert.ErrorIs(t, err, NewError(ErrForbidden))
	assert.NotErrorIs(t, err, NewError(ErrFileNotFound))
	assert.ErrorIs(t, NewError(ErrUnsupportedEvent, "a"), NewError(ErrUnsupportedEvent, "b"))
}
