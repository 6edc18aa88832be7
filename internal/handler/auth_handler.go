/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

// PasswordHashCost is the bcrypt cost used for new accounts.
const PasswordHashCost = 12

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the body of a successful register or login.
type AuthResult struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

// HandleRegister creates an account and signs the caller in.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := normalizeEmail(input.Email)
		username := strings.TrimSpace(input.Username)
		if email == "" || input.Password == "" || username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrAuthFieldsRequired))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordHashCost)
		if err != nil {
			logx.Error(err, "register: password hashing failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		created, err := deps.Stores.CreateUser(r.Context(), store.CreateUserParams{
			Email:        email,
			Username:     username,
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				logx.Warn("registration conflict: email already exists", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		token, err := auth.Issue(created, deps.Config.JWTSecret, deps.Config.JWTExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration", "user_id", created.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("User registered", "user_id", created.ID)
		resp.RespondCreated(w, r, AuthResult{User: created, Token: token})
	}
}

// HandleLogin verifies credentials, marks the account online and issues a token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := normalizeEmail(input.Email)
		if email == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		account, err := deps.Stores.FindUserByEmail(r.Context(), email)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logx.Error(err, "login: user fetch failed")
				resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
				return
			}

			logx.Warn("login: unknown email", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "user_id", account.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Stores.SetOnline(r.Context(), account.ID, true); err != nil {
			logx.Error(err, "login: failed to mark user online", "user_id", account.ID)
		} else {
			account.IsOnline = true
		}

		token, err := auth.Issue(account.User, deps.Config.JWTSecret, deps.Config.JWTExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed", "user_id", account.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, AuthResult{User: account.User, Token: token})
	}
}

// HandleMe returns the caller's current profile.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		u, err := deps.Stores.FindUserByID(r.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
				return
			}

			logx.Error(err, "get_me: user fetch failed", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, u)
	}
}

// HandleLogout marks the caller offline. Tokens are stateless and stay valid until they expire.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if err := deps.Stores.SetOnline(r.Context(), identity.ID, false); err != nil {
			logx.Error(err, "logout: failed to mark user offline", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
