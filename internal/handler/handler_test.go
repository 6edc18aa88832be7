package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/app/presence"
	"rtchat/internal/app/storage"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/configs"
)

const (
	testSecret = "handler-test-secret"
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

var (
	alice = user.User{ID: "11111111-1111-1111-1111-111111111111", Email: "alice@example.com", Username: "alice"}
	bob   = user.User{ID: "22222222-2222-2222-2222-222222222222", Email: "bob@example.com", Username: "bob"}
)

// tokenVerifier resolves fixed tokens to identities.
type tokenVerifier map[string]user.Identity

func (v tokenVerifier) Verify(_ context.Context, token string) (user.Identity, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return user.Identity{}, auth.ErrInvalidToken
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	deps    *AppDeps
	stores  *store.MockStores
	storage *storage.MockStorage
	router  http.Handler
}

func newTestEnv(t *testing.T, withStorage bool) *testEnv {
	t.Helper()

	stores := &store.MockStores{}
	t.Cleanup(func() { stores.AssertExpectations(t) })

	cfg := &configs.AppConfig{
		Environment:          configs.EnvDevelopment,
		JWTSecret:            testSecret,
		JWTExpiration:        time.Hour,
		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 1000,
		WSEventRate:          100,
		WSEventBurst:         100,
		MaxFileSize:          1 << 20,
	}

	env := &testEnv{
		stores: stores,
		deps: &AppDeps{
			Hub:    chat.NewHub(presence.NewRegistry(), stores, time.Second),
			Config: cfg,
			Stores: stores,
			Verifier: tokenVerifier{
				aliceToken: alice.Identity(),
				bobToken:   bob.Identity(),
			},
		},
	}

	if withStorage {
		env.storage = &storage.MockStorage{}
		t.Cleanup(func() { env.storage.AssertExpectations(t) })
		env.deps.Storage = env.storage
	}

	env.router = Router(t.Context(), env.deps)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
