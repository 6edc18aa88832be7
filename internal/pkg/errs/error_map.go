/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, in-band error events and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrRouteNotFound:         {Code: ErrRouteNotFound, Message: "Route not found.", Status: http.StatusNotFound},

	// 2xxx: Real-time Event, Messaging and Call Errors
	ErrInvalidEventPayload:   {Code: ErrInvalidEventPayload, Message: "Invalid event payload."},
	ErrUnsupportedEvent:      {Code: ErrUnsupportedEvent, Message: "Unsupported event: %s"},
	ErrMessageTypeInvalid:    {Code: ErrMessageTypeInvalid, Message: "Invalid message type.", Status: http.StatusBadRequest},
	ErrMessageFieldsRequired: {Code: ErrMessageFieldsRequired, Message: "Content, type, and receiverId are required.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrMessageSendFailed:     {Code: ErrMessageSendFailed, Message: "Failed to send message", Status: http.StatusInternalServerError},
	ErrMessageIDRequired:     {Code: ErrMessageIDRequired, Message: "messageId is required."},
	ErrCallTypeInvalid:       {Code: ErrCallTypeInvalid, Message: "Call type must be audio or video."},
	ErrCallTargetRequired:    {Code: ErrCallTargetRequired, Message: "Call target is required."},
	ErrCallPayloadRequired:   {Code: ErrCallPayloadRequired, Message: "Signaling payload is required."},
	ErrFileRequired:          {Code: ErrFileRequired, Message: "No file provided.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File too large.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:       {Code: ErrFileTypeInvalid, Message: "Unsupported file type.", Status: http.StatusBadRequest},
	ErrFileNotFound:          {Code: ErrFileNotFound, Message: "File not found.", Status: http.StatusNotFound},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "No token provided.", Status: http.StatusUnauthorized},
	ErrInvalidToken:       {Code: ErrInvalidToken, Message: "Invalid token.", Status: http.StatusUnauthorized},
	ErrAuthFieldsRequired: {Code: ErrAuthFieldsRequired, Message: "Email, password, and username are required.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "User already exists.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials.", Status: http.StatusUnauthorized},
	ErrSessionKicked:      {Code: ErrSessionKicked, Message: "You were signed in on another device."},
	ErrForbidden:          {Code: ErrForbidden, Message: "You do not have access to this resource.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown:                {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreFailed:            {Code: ErrStoreFailed, Message: "Storage request failed. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed:      {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageUnavailable: {Code: ErrFileStorageUnavailable, Message: "File uploads are not enabled.", Status: http.StatusServiceUnavailable},
}
