package chat

import (
	"bytes"
	"encoding/json"
	"strings"

	"rtchat/internal/pkg/errs"
)

// MaxContentBytes is the maximum allowed size (in bytes) of message content.
const MaxContentBytes = 5000

// Validate checks a message:send payload.
func (p *SendPayload) Validate() *errs.CustomError {
	p.ReceiverID = strings.TrimSpace(p.ReceiverID)

	if p.ReceiverID == "" || p.Type == "" || (strings.TrimSpace(p.Content) == "" && p.FileURL == "") {
		return errs.NewError(errs.ErrMessageFieldsRequired)
	}

	if !p.Type.Valid() {
		return errs.NewError(errs.ErrMessageTypeInvalid)
	}

	if len(p.Content) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	if p.FileSize < 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}

// Validate checks a message:read payload.
func (p *ReadPayload) Validate() *errs.CustomError {
	if strings.TrimSpace(p.MessageID) == "" {
		return errs.NewError(errs.ErrMessageIDRequired)
	}
	return nil
}

// Validate checks a call:offer payload.
func (p *OfferPayload) Validate() *errs.CustomError {
	if p.To == "" {
		return errs.NewError(errs.ErrCallTargetRequired)
	}
	if isEmptyJSON(p.Offer) {
		return errs.NewError(errs.ErrCallPayloadRequired)
	}
	if !p.CallType.Valid() {
		return errs.NewError(errs.ErrCallTypeInvalid)
	}
	return nil
}

// Validate checks a call:answer payload.
func (p *AnswerPayload) Validate() *errs.CustomError {
	if p.To == "" {
		return errs.NewError(errs.ErrCallTargetRequired)
	}
	if isEmptyJSON(p.Answer) {
		return errs.NewError(errs.ErrCallPayloadRequired)
	}
	return nil
}

// Validate checks a call:ice-candidate payload.
func (p *ICEPayload) Validate() *errs.CustomError {
	if p.To == "" {
		return errs.NewError(errs.ErrCallTargetRequired)
	}
	if isEmptyJSON(p.Candidate) {
		return errs.NewError(errs.ErrCallPayloadRequired)
	}
	return nil
}

// Validate checks a call:hang-up or call:reject payload.
func (p *TargetPayload) Validate() *errs.CustomError {
	if p.To == "" {
		return errs.NewError(errs.ErrCallTargetRequired)
	}
	return nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
