package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rtchat/internal/app/chat"
	"rtchat/internal/app/store"
	"rtchat/internal/pkg/errs"
)

func TestListMessages(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.stores.On("ListMessages", mock.Anything, 0, DefaultPageLimit).Return(nil, 0, nil).Once()

		w := env.do(t, http.MethodGet, "/messages", aliceToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page MessagePage
		decode(t, w, &page)
		assert.Empty(t, page.Messages)
		assert.False(t, page.HasMore)
	})

	t.Run("limit capped and hasMore", func(t *testing.T) {
		env := newTestEnv(t, false)
		msgs := []store.Message{{ID: "m-1"}, {ID: "m-2"}}
		env.stores.On("ListMessages", mock.Anything, 20, MaxPageLimit).Return(msgs, 150, nil).Once()

		w := env.do(t, http.MethodGet, "/messages?offset=20&limit=500", aliceToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page MessagePage
		decode(t, w, &page)
		assert.Len(t, page.Messages, 2)
		assert.True(t, page.HasMore)
		assert.Equal(t, 150, page.Total)
	})

	t.Run("last page", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.stores.On("ListMessages", mock.Anything, 100, 50).Return([]store.Message{{ID: "m-9"}}, 150, nil).Once()

		w := env.do(t, http.MethodGet, "/messages?offset=100&limit=50", aliceToken, nil)
		var page MessagePage
		decode(t, w, &page)
		assert.False(t, page.HasMore)
	})

	t.Run("requires auth", func(t *testing.T) {
		env := newTestEnv(t, false)
		w := env.do(t, http.MethodGet, "/messages", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateMessage(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t, false)

		w := env.do(t, http.MethodPost, "/messages", aliceToken, chat.SendPayload{Type: store.MessageText, ReceiverID: bob.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errs.ErrMessageFieldsRequired, decode(t, w, nil).Code)
	})

	t.Run("persisted with sender from token", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.stores.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m store.Message) bool {
			return m.SenderID == alice.ID && m.ReceiverID == bob.ID && m.Content == "hi" &&
				m.IsDelivered && !m.IsRead && m.ID != ""
		})).Return(store.Message{ID: "m-1", Content: "hi", SenderID: alice.ID, ReceiverID: bob.ID}, nil).Once()

		w := env.do(t, http.MethodPost, "/messages", aliceToken, chat.SendPayload{
			Content: "hi", Type: store.MessageText, ReceiverID: bob.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var msg store.Message
		decode(t, w, &msg)
		assert.Equal(t, "m-1", msg.ID)
	})

	t.Run("store failure", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.stores.On("CreateMessage", mock.Anything, mock.Anything).Return(store.Message{}, assert.AnError).Once()

		w := env.do(t, http.MethodPost, "/messages", aliceToken, chat.SendPayload{
			Content: "hi", Type: store.MessageText, ReceiverID: bob.ID,
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, errs.ErrMessageSendFailed, decode(t, w, nil).Code)
	})
}
