/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request or event rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrRouteNotFound indicates that no handler is registered for the requested path.
	ErrRouteNotFound = 1008
)

// 2xxx: Real-time Event, Messaging and Call Errors
const (
	// ErrInvalidEventPayload indicates that an inbound event envelope or its payload could not be decoded.
	ErrInvalidEventPayload = 2001

	// ErrUnsupportedEvent indicates that the client sent an event name the server does not handle.
	ErrUnsupportedEvent = 2002

	// ErrMessageTypeInvalid indicates that a message type outside text/image/file/audio/video was provided.
	ErrMessageTypeInvalid = 2101

	// ErrMessageFieldsRequired indicates that content (or file), type or receiverId is missing.
	ErrMessageFieldsRequired = 2102

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2103

	// ErrMessageSendFailed indicates that a message could not be persisted and was not delivered.
	ErrMessageSendFailed = 2104

	// ErrMessageIDRequired indicates that a read receipt did not name a message.
	ErrMessageIDRequired = 2105

	// ErrCallTypeInvalid indicates that a call offer used a call type other than audio or video.
	ErrCallTypeInvalid = 2201

	// ErrCallTargetRequired indicates that a call signal did not name its target user.
	ErrCallTargetRequired = 2202

	// ErrCallPayloadRequired indicates that an offer, answer or ICE candidate was empty.
	ErrCallPayloadRequired = 2203

	// ErrFileRequired indicates that an upload request carried no file.
	ErrFileRequired = 2301

	// ErrFileSizeTooLarge indicates that an uploaded file exceeded MAX_FILE_SIZE.
	ErrFileSizeTooLarge = 2302

	// ErrFileTypeInvalid indicates that an uploaded image had a disallowed extension or MIME type.
	ErrFileTypeInvalid = 2303

	// ErrFileNotFound indicates that no stored object exists under the requested key.
	ErrFileNotFound = 2304
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates that the request carried no usable credentials.
	ErrUnauthorized = 3001

	// ErrInvalidToken indicates that the bearer token was malformed, expired or for an unknown user.
	ErrInvalidToken = 3002

	// ErrAuthFieldsRequired indicates that email, password (and username on register) are missing.
	ErrAuthFieldsRequired = 3003

	// ErrUserAlreadyExists indicates that an account with that email already exists.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates that the email/password pair did not match.
	ErrInvalidCredentials = 3005

	// ErrSessionKicked indicates that the current client connection was replaced by a newer one.
	ErrSessionKicked = 3006

	// ErrForbidden indicates that the caller may not act on another user's resource.
	ErrForbidden = 3007
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreFailed indicates that the persistence layer failed to serve a request.
	ErrStoreFailed = 5001

	// ErrFileStorageFailed indicates that the object storage rejected an upload or presign call.
	ErrFileStorageFailed = 5002

	// ErrFileStorageUnavailable indicates that object storage is not configured on this server.
	ErrFileStorageUnavailable = 5003
)
