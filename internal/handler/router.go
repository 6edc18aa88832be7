/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"rtchat/internal/app/auth"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/limiter"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

const (
	// HandshakeRate and HandshakeBurst bound websocket upgrades per client IP.
	HandshakeRate  = 0.5
	HandshakeBurst = 10

	serviceName = "RT Chat Server"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
// The limiters' cleanup goroutines stop when ctx is cancelled.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	apiLimiter := limiter.NewIPRateLimiter(
		ctx,
		limiter.PerWindow(deps.Config.RateLimitMaxRequests, deps.Config.RateLimitWindow),
		deps.Config.RateLimitMaxRequests,
	)
	handshakeLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(HandshakeRate), HandshakeBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrRouteNotFound))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": serviceName,
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader, handshakeLimiter))

	r.Group(func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Post("/auth/register", HandleRegister(deps))
		api.Post("/auth/login", HandleLogin(deps))
		api.Get("/files/*", HandleDownloadFile(deps))

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(deps.Verifier))

			protected.Get("/auth/me", HandleMe(deps))
			protected.Post("/auth/logout", HandleLogout(deps))

			protected.Get("/users", HandleListUsers(deps))

			protected.Get("/messages", HandleListMessages(deps))
			protected.Post("/messages", HandleCreateMessage(deps))

			protected.Post("/upload/image", HandleUploadImage(deps))
			protected.Post("/upload/file", HandleUploadFile(deps))
			protected.Delete("/files/*", HandleDeleteFile(deps))
		})
	})

	return r
}
