package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/api"
	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/cache"
	"github.com/shortlist-app/shortlist/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	ItemStore  *store.ItemStore
	UserStore  *store.UserStore
	TokenStore auth.TokenStore
	URLCache   *cache.Resolver
	Logger     zerolog.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
// Named routes (/ping, /metrics, /api/v1) are registered before the
// short-code catch-all so reserved paths always take precedence.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Heartbeat("/ping"))
	r.Use(httplog.RequestLogger(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	// API sub-router at /api/v1 — must be before the catch-all.
	bearerAuth := auth.NewBearerTokenMiddleware(deps.TokenStore, deps.UserStore)
	apiRouter := api.NewAPIRouter(api.Deps{
		BearerAuth: bearerAuth,
		ItemStore:  deps.ItemStore,
		UserStore:  deps.UserStore,
		TokenStore: deps.TokenStore,
		URLCache:   deps.URLCache,
		Logger:     deps.Logger,
	})
	r.Mount("/api/v1", apiRouter)

	// Short-code resolver, catch-all, must be last. No auth; short links
	// are publicly accessible.
	resolver := NewResolveHandler(deps.ItemStore, deps.URLCache, deps.Logger)
	r.Get("/{code}", resolver.Resolve)

	return r
}
