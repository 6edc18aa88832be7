/*
Package auth implements the Identity Verifier: it turns an opaque bearer token into the
user identity attached to a connection or request.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/auth/jwt"
)

// ErrInvalidToken is returned for absent, malformed or expired tokens and for tokens whose
// account no longer exists.
var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier resolves a bearer token into a user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (user.Identity, error)
}

// UserFinder is the subset of store.UserStore the verifier needs.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (user.User, error)
}

// JWTVerifier validates HS256 tokens and re-reads the account so identities reflect the
// current profile rather than what was signed into the token.
type JWTVerifier struct {
	secret  string
	users   UserFinder
	timeout time.Duration
}

// NewJWTVerifier builds a verifier. timeout bounds the user lookup; zero disables it.
func NewJWTVerifier(secret string, users UserFinder, timeout time.Duration) *JWTVerifier {
	return &JWTVerifier{secret: secret, users: users, timeout: timeout}
}

// Verify implements Verifier. Any non-ErrInvalidToken error means the user store was unreachable.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (user.Identity, error) {
	if token == "" {
		return user.Identity{}, ErrInvalidToken
	}

	payload, err := jwt.ParseToken(token, v.secret)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	u, err := v.users.FindUserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return user.Identity{}, fmt.Errorf("%w: user %s not found", ErrInvalidToken, payload.UserID)
		}
		return user.Identity{}, fmt.Errorf("auth: lookup user %s: %w", payload.UserID, err)
	}

	return u.Identity(), nil
}

// Issue signs a token for u valid for ttl.
func Issue(u user.User, secret string, ttl time.Duration) (string, error) {
	return jwt.GenerateToken(&jwt.Payload{UserID: u.ID, Email: u.Email}, secret, ttl)
}
