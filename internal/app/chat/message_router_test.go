package chat

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rtchat/internal/app/store"
	"rtchat/internal/pkg/errs"
)

func persisted(content string, to string) store.Message {
	return store.Message{
		ID:          "m-1",
		Content:     content,
		Type:        store.MessageText,
		SenderID:    alice.ID,
		ReceiverID:  to,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		IsDelivered: true,
	}
}

func TestSendScenarioThreeConnections(t *testing.T) {
	hub, stores := newTestHub(t)
	a := connect(t, hub, alice)
	b := connect(t, hub, bob)
	c := connect(t, hub, carol)
	resetAll(a, b, c)

	stores.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m store.Message) bool {
		return m.Content == "hi" && m.SenderID == alice.ID && m.ReceiverID == bob.ID && m.ID != ""
	})).Return(persisted("hi", bob.ID), nil).Once()

	hub.Dispatch(t.Context(), a, frame(t, EventMessageSend, map[string]any{
		"content": "hi", "type": "text", "receiverId": bob.ID, "tempId": "t1",
	}))

	received := b.Named(EventMessageReceive)
	require.Len(t, received, 1)
	assert.Equal(t, "hi", received[0].Payload.(store.Message).Content)
	assert.Len(t, b.Events(), 1)

	confirmed := a.Named(EventMessageConfirmed)
	require.Len(t, confirmed, 1)
	payload := confirmed[0].Payload.(ConfirmedPayload)
	assert.Equal(t, "t1", payload.TempID)
	assert.Equal(t, "hi", payload.Message.Content)
	assert.Len(t, a.Events(), 1)

	assert.Empty(t, c.Events())
	stores.AssertExpectations(t)
}

func TestSendToOfflineReceiver(t *testing.T) {
	hub, stores := newTestHub(t)
	a := connect(t, hub, alice)
	resetAll(a)

	stores.On("CreateMessage", mock.Anything, mock.Anything).Return(persisted("later", bob.ID), nil).Once()

	hub.Dispatch(t.Context(), a, frame(t, EventMessageSend, SendPayload{Content: "later", Type: store.MessageText, ReceiverID: bob.ID}))

	assert.Empty(t, a.Named(EventMessageReceive))
	confirmed := a.Named(EventMessageConfirmed)
	require.Len(t, confirmed, 1)
	assert.Empty(t, confirmed[0].Payload.(ConfirmedPayload).TempID)
	stores.AssertCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendStoreFailure(t *testing.T) {
	hub, stores := newTestHub(t)
	a := connect(t, hub, alice)
	b := connect(t, hub, bob)
	resetAll(a, b)

	stores.On("CreateMessage", mock.Anything, mock.Anything).Return(store.Message{}, errors.New("db down")).Once()

	hub.Dispatch(t.Context(), a, frame(t, EventMessageSend, SendPayload{Content: "hi", Type: store.MessageText, ReceiverID: bob.ID, TempID: "t9"}))

	assert.Empty(t, b.Events())
	events := a.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Event)
	assert.Equal(t, ErrorPayload{Code: errs.ErrMessageSendFailed, Message: "Failed to send message"}, events[0].Payload)
}

func TestSendValidation(t *testing.T) {
	cases := map[string]struct {
		payload SendPayload
		code    int
	}{
		"missing receiver": {SendPayload{Content: "x", Type: store.MessageText}, errs.ErrMessageFieldsRequired},
		"missing content":  {SendPayload{Type: store.MessageText, ReceiverID: bob.ID}, errs.ErrMessageFieldsRequired},
		"missing type":     {SendPayload{Content: "x", ReceiverID: bob.ID}, errs.ErrMessageFieldsRequired},
		"bad type":         {SendPayload{Content: "x", Type: "sticker", ReceiverID: bob.ID}, errs.ErrMessageTypeInvalid},
		"too long":         {SendPayload{Content: strings.Repeat("x", MaxContentBytes+1), Type: store.MessageText, ReceiverID: bob.ID}, errs.ErrMessageContentTooLong},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			hub, stores := newTestHub(t)
			a := connect(t, hub, alice)
			resetAll(a)

			hub.Dispatch(t.Context(), a, frame(t, EventMessageSend, tc.payload))

			events := a.Events()
			require.Len(t, events, 1)
			assert.Equal(t, EventError, events[0].Event)
			assert.Equal(t, tc.code, events[0].Payload.(ErrorPayload).Code)
			stores.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
		})
	}
}

func TestSendFileMessageWithoutContent(t *testing.T) {
	hub, stores := newTestHub(t)
	a := connect(t, hub, alice)
	resetAll(a)

	stores.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m store.Message) bool {
		return m.Type == store.MessageFile && m.FileURL == "/files/f/x.pdf" && m.FileSize == 42
	})).Return(persisted("", bob.ID), nil).Once()

	hub.Dispatch(t.Context(), a, frame(t, EventMessageSend, SendPayload{
		Type: store.MessageFile, ReceiverID: bob.ID, FileURL: "/files/f/x.pdf", FileName: "x.pdf", FileSize: 42,
	}))

	assert.Len(t, a.Named(EventMessageConfirmed), 1)
	stores.AssertExpectations(t)
}

func TestTypingBroadcastExcludesSender(t *testing.T) {
	hub, _ := newTestHub(t)
	a := connect(t, hub, alice)
	b := connect(t, hub, bob)
	c := connect(t, hub, carol)
	resetAll(a, b, c)

	hub.Dispatch(t.Context(), a, frame(t, EventMessageTyping, TypingPayload{IsTyping: true, UserID: bob.ID, From: "forged"}))

	assert.Empty(t, a.Events())
	for _, peer := range []*fakeConn{b, c} {
		events := peer.Named(EventMessageTyping)
		require.Len(t, events, 1, peer.name)
		assert.Equal(t, TypingPayload{IsTyping: true, UserID: bob.ID, From: alice.ID}, events[0].Payload)
	}
}

func TestReadReceipt(t *testing.T) {
	t.Run("broadcast on success", func(t *testing.T) {
		hub, stores := newTestHub(t)
		a := connect(t, hub, alice)
		b := connect(t, hub, bob)
		c := connect(t, hub, carol)
		resetAll(a, b, c)

		stores.On("MarkMessageRead", mock.Anything, "m-1").Return(nil).Once()

		hub.Dispatch(t.Context(), b, frame(t, EventMessageRead, ReadPayload{MessageID: "m-1", UserID: alice.ID}))

		assert.Empty(t, b.Events())
		for _, peer := range []*fakeConn{a, c} {
			events := peer.Named(EventMessageRead)
			require.Len(t, events, 1)
			assert.Equal(t, ReadPayload{MessageID: "m-1", UserID: alice.ID, From: bob.ID}, events[0].Payload)
		}
		stores.AssertExpectations(t)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		hub, stores := newTestHub(t)
		a := connect(t, hub, alice)
		b := connect(t, hub, bob)
		resetAll(a, b)

		stores.On("MarkMessageRead", mock.Anything, "m-1").Return(errors.New("timeout")).Once()

		hub.Dispatch(t.Context(), b, frame(t, EventMessageRead, ReadPayload{MessageID: "m-1"}))

		assert.Empty(t, a.Events())
		assert.Empty(t, b.Events())
	})

	t.Run("message id required", func(t *testing.T) {
		hub, stores := newTestHub(t)
		b := connect(t, hub, bob)
		resetAll(b)

		hub.Dispatch(t.Context(), b, frame(t, EventMessageRead, ReadPayload{}))

		events := b.Events()
		require.Len(t, events, 1)
		assert.Equal(t, errs.ErrMessageIDRequired, events[0].Payload.(ErrorPayload).Code)
		stores.AssertNotCalled(t, "MarkMessageRead", mock.Anything, mock.Anything)
	})
}

func TestSendBlocksOnlyTheSendingConnection(t *testing.T) {
	hub, stores := newTestHub(t)
	a := connect(t, hub, alice)
	b := connect(t, hub, bob)
	c := connect(t, hub, carol)
	resetAll(a, b, c)

	entered := make(chan struct{})
	release := make(chan struct{})
	stores.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(persisted("slow", bob.ID), nil).Once()

	send := frame(t, EventMessageSend, SendPayload{Content: "slow", Type: store.MessageText, ReceiverID: bob.ID})
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Dispatch(t.Context(), a, send)
	}()

	<-entered

	// carol's typing is delivered while alice's send is still waiting on the store
	hub.Dispatch(t.Context(), c, frame(t, EventMessageTyping, TypingPayload{IsTyping: true}))
	assert.Len(t, b.Named(EventMessageTyping), 1)

	close(release)
	<-done
	assert.Len(t, b.Named(EventMessageReceive), 1)
}
