package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/cache"
	"github.com/shortlist-app/shortlist/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth *auth.BearerTokenMiddleware
	ItemStore  store.ItemStoreIface
	UserStore  *store.UserStore
	TokenStore auth.TokenStore
	URLCache   *cache.Resolver
	Logger     zerolog.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1. Registration and login
// are public; everything else requires Bearer token authentication. All
// routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)

	registerPublicAuthRoutes(r, deps.UserStore, deps.TokenStore, deps.Logger)

	r.Group(func(r chi.Router) {
		r.Use(deps.BearerAuth.Authenticate)
		registerAuthRoutes(r, deps.UserStore, deps.TokenStore, deps.Logger)
		registerItemRoutes(r, deps.ItemStore, deps.URLCache, deps.Logger)
		registerTokenRoutes(r, deps.TokenStore)
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on
// all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
