package handler

import (
	"net/http"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

// HandleListUsers returns every account except the caller, ordered by username.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		users, err := deps.Stores.ListUsers(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "list_users: query failed", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreFailed))
			return
		}

		if users == nil {
			users = []user.User{}
		}

		resp.RespondSuccess(w, r, users)
	}
}
