/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, verifying
the bearer token, upgrading the HTTP connection to WebSocket, and running the client lifecycle.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/pkg/auth/jwt"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/limiter"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Verification happens before the upgrade, so a bad token is answered with a plain 401.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)
		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", logx.AnonymizeIP(ip))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := jwt.BearerToken(r)
		if token == "" {
			logx.Warn("WebSocket request rejected: Missing token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		identity, err := deps.Verifier.Verify(r.Context(), token)
		if err != nil {
			auth.RespondVerifyError(w, r, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket", "user_id", identity.ID)
			return
		}

		client := chat.NewClient(deps.Hub, conn, identity, chat.ClientOptions{
			EventRate:  rate.Limit(deps.Config.WSEventRate),
			EventBurst: deps.Config.WSEventBurst,
		})

		logx.Info("WebSocket connection established", "user_id", identity.ID)

		if err := client.Serve(r.Context()); err != nil {
			if errors.Is(err, chat.ErrHubClosed) {
				logx.Info("WebSocket connection refused during shutdown", "user_id", identity.ID)
				return
			}
			logx.Error(err, "WebSocket session ended with error", "user_id", identity.ID)
		}
	}
}
