package auth

import (
	"context"
	"errors"
	"net/http"

	"rtchat/internal/app/user"
	"rtchat/internal/pkg/auth/jwt"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

type contextKey string

// ContextIdentityKey is the key under which the verified identity is stored in the request Context.
const ContextIdentityKey contextKey = "auth_identity"

// Middleware rejects requests without a valid bearer token with 401 and injects the verified
// identity into the request context otherwise.
func Middleware(v Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwt.BearerToken(r)
			if token == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			identity, err := v.Verify(r.Context(), token)
			if err != nil {
				RespondVerifyError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RespondVerifyError maps a Verify error to its HTTP response.
func RespondVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidToken) {
		logx.Warn("Rejected request with invalid token", "error", err.Error())
		resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
		return
	}

	logx.Error(err, "Identity verification failed")
	resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity user.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, identity)
}

// IdentityFromContext extracts the verified identity placed by Middleware.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(user.Identity)
	return identity, ok
}
