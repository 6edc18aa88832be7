package jwt

import (
	"net/http"
	"strings"
)

// QueryTokenKey is the query parameter browsers use to pass the token on websocket upgrades,
// where custom headers cannot be set.
const QueryTokenKey = "token"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header, falling back
// to the token query parameter. It returns "" when neither is present or the header is malformed.
func BearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	return strings.TrimSpace(r.URL.Query().Get(QueryTokenKey))
}
