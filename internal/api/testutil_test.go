package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/api"
	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/store"
	"github.com/shortlist-app/shortlist/internal/testutil"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router     http.Handler
	ItemStore  *store.ItemStore
	UserStore  *store.UserStore
	TokenStore *auth.SQLTokenStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores. Redis is left
// unconfigured; the nil cache behaves as a permanent miss.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	items := store.NewItemStore(db)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)

	deps := api.Deps{
		BearerAuth: auth.NewBearerTokenMiddleware(ts, us),
		ItemStore:  items,
		UserStore:  us,
		TokenStore: ts,
		Logger:     zerolog.Nop(),
	}

	router := api.NewAPIRouter(deps)
	return &testEnv{
		Router:     router,
		ItemStore:  items,
		UserStore:  us,
		TokenStore: ts,
	}
}

// seedUser creates a user with a known password ("sekret99") and returns it.
func seedUser(t *testing.T, env *testEnv, username, email string) *store.User {
	t.Helper()
	hash, err := auth.HashPassword("sekret99")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := env.UserStore.Create(context.Background(), username, email, hash)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// decodeJSON decodes a recorded response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
