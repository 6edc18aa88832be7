package handler

import (
	"errors"
	"net/http"
	"time"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/app/store"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// MessagePage is one page of message history.
type MessagePage struct {
	Messages []store.Message `json:"messages"`
	HasMore  bool            `json:"hasMore"`
	Total    int             `json:"total"`
}

// HandleListMessages pages through message history, newest first.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset := req.QueryInt(r, "offset", 0)

		limit := req.QueryInt(r, "limit", DefaultPageLimit)
		if limit == 0 {
			limit = DefaultPageLimit
		}
		limit = min(limit, MaxPageLimit)

		messages, total, err := deps.Stores.ListMessages(r.Context(), offset, limit)
		if err != nil {
			logx.Error(err, "list_messages: query failed", "offset", offset, "limit", limit)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		if messages == nil {
			messages = []store.Message{}
		}

		resp.RespondSuccess(w, r, MessagePage{
			Messages: messages,
			HasMore:  offset+limit < total,
			Total:    total,
		})
	}
}

// HandleCreateMessage persists a message sent over REST. It is stored for history only and
// is not pushed to the receiver's live connection.
func HandleCreateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input chat.SendPayload
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := input.Validate(); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		saved, err := deps.Stores.CreateMessage(r.Context(), store.Message{
			ID:          randx.MessageID(),
			Content:     input.Content,
			Type:        input.Type,
			SenderID:    identity.ID,
			ReceiverID:  input.ReceiverID,
			CreatedAt:   time.Now().UTC(),
			IsDelivered: true,
			ReplyTo:     input.ReplyTo,
			FileURL:     input.FileURL,
			FileName:    input.FileName,
			FileSize:    input.FileSize,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logx.Warn("create_message: unknown receiver or reply target", "receiver_id", input.ReceiverID)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}

			logx.Error(err, "create_message: insert failed", "sender_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageSendFailed))
			return
		}

		resp.RespondCreated(w, r, saved)
	}
}
