package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/cache"
	"github.com/shortlist-app/shortlist/internal/metrics"
	"github.com/shortlist-app/shortlist/internal/store"
)

// ResolveHandler handles public short-code resolution and redirection.
type ResolveHandler struct {
	items  store.ItemStoreIface
	urls   *cache.Resolver
	logger zerolog.Logger
}

// NewResolveHandler creates a new ResolveHandler.
func NewResolveHandler(items store.ItemStoreIface, urls *cache.Resolver, logger zerolog.Logger) *ResolveHandler {
	return &ResolveHandler{items: items, urls: urls, logger: logger}
}

// Resolve looks up a short code and redirects to the target URL with a 302.
// The visit counter is bumped in the database on every hit, cached or not;
// the cache only short-circuits the row read. A cache entry whose code no
// longer exists in the database is evicted and the request 404s.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code := chi.URLParam(r, "code")

	if url, ok := h.urls.GetURL(r.Context(), code); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		err := h.items.IncrementVisits(r.Context(), code)
		if err == nil {
			h.redirect(w, r, url, start)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error().Err(err).Str("code", code).Msg("increment visits")
			metrics.RedirectsTotal.WithLabelValues("error").Inc()
			http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
			return
		}
		// Stale cache entry; evict and fall through to the database.
		h.urls.Invalidate(r.Context(), code)
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	item, err := h.items.ResolveShortCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RedirectsTotal.WithLabelValues("not_found").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Not found"}`))
			return
		}
		h.logger.Error().Err(err).Str("code", code).Msg("resolve short code")
		metrics.RedirectsTotal.WithLabelValues("error").Inc()
		http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
		return
	}

	h.urls.SetURL(r.Context(), code, item.URL.String)
	h.redirect(w, r, item.URL.String, start)
}

func (h *ResolveHandler) redirect(w http.ResponseWriter, r *http.Request, url string, start time.Time) {
	metrics.RedirectsTotal.WithLabelValues("ok").Inc()
	metrics.RedirectDuration.Observe(time.Since(start).Seconds())
	http.Redirect(w, r, url, http.StatusFound)
}
