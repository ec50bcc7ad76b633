package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/cache"
	"github.com/shortlist-app/shortlist/internal/metrics"
	"github.com/shortlist-app/shortlist/internal/store"
)

// itemsAPIHandler provides REST handlers for item management. Every store
// call carries the authenticated user's id; there is no unscoped access.
type itemsAPIHandler struct {
	items  store.ItemStoreIface
	urls   *cache.Resolver
	logger zerolog.Logger
}

// registerItemRoutes registers item routes on r. The stats route must come
// before {id} so chi does not treat "stats" as an item id.
func registerItemRoutes(r chi.Router, items store.ItemStoreIface, urls *cache.Resolver, logger zerolog.Logger) {
	h := &itemsAPIHandler{items: items, urls: urls, logger: logger}
	r.Get("/todos/", h.List)
	r.Post("/todos/", h.Create)
	r.Get("/todos/stats", h.Stats)
	r.Get("/todos/{id}", h.Get)
	r.Put("/todos/{id}", h.Update)
	r.Patch("/todos/{id}", h.Update)
	r.Delete("/todos/{id}", h.Delete)
}

// List returns one page of the caller's items in insertion order.
// GET /api/v1/todos/?page=N&per_page=M
//
// @Summary      List items
// @Description  Returns the caller's items, paginated, oldest first.
// @Tags         Items
// @Produce      json
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        per_page  query     int  false  "Page size (default 5)"
// @Success      200  {object}  ItemListResponse
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Security     BearerToken
// @Router       /todos/ [get]
func (h *itemsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	page, perPage, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	items, total, err := h.items.ListByOwner(r.Context(), user.ID, page, perPage)
	if err != nil {
		h.logger.Error().Err(err).Msg("list items")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	resp := ItemListResponse{
		Data: make([]ItemResponse, 0, len(items)),
		Meta: Paginate(total, page, perPage),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toItemResponse(item))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds an item owned by the caller. A request with a url field creates
// a link item (validated, globally unique, short code assigned); anything
// else creates a to-do from title.
// POST /api/v1/todos/
//
// @Summary      Create an item
// @Description  Creates a to-do or, when url is set, a short link.
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        body  body      CreateItemRequest  true  "Item to create"
// @Success      201   {object}  ItemResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Security     BearerToken
// @Router       /todos/ [post]
func (h *itemsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	var item *store.Item
	var err error
	if req.URL != "" {
		item, err = h.items.CreateLink(r.Context(), user.ID, req.URL, req.Body)
	} else {
		item, err = h.items.CreateTodo(r.Context(), user.ID, req.Title)
	}
	if err != nil {
		if errors.Is(err, store.ErrURLInvalid) {
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_url")
			return
		}
		if errors.Is(err, store.ErrURLTaken) {
			writeError(w, http.StatusConflict, err.Error(), "url_conflict")
			return
		}
		h.logger.Error().Err(err).Msg("create item")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if item.IsLink() {
		metrics.ItemsCreatedTotal.WithLabelValues("link").Inc()
	} else {
		metrics.ItemsCreatedTotal.WithLabelValues("todo").Inc()
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Get returns a single item owned by the caller. Someone else's item and a
// nonexistent id produce the same 404.
// GET /api/v1/todos/{id}
//
// @Summary      Get an item
// @Tags         Items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  ItemResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Security     BearerToken
// @Router       /todos/{id} [get]
func (h *itemsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found", "not_found")
		return
	}

	item, err := h.items.GetByOwner(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "not_found")
			return
		}
		h.logger.Error().Err(err).Msg("get item")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Update modifies an item owned by the caller. Link items re-validate the URL
// format and global uniqueness; to-do items take title and is_complete. The
// short code is immutable.
// PUT/PATCH /api/v1/todos/{id}
//
// @Summary      Update an item
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Item ID"
// @Param        body  body      UpdateItemRequest  true  "Fields to update"
// @Success      200   {object}  ItemResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Security     BearerToken
// @Router       /todos/{id} [put]
func (h *itemsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found", "not_found")
		return
	}

	item, err := h.items.GetByOwner(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "not_found")
			return
		}
		h.logger.Error().Err(err).Msg("load item for update")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	var updated *store.Item
	if item.IsLink() {
		updated, err = h.items.UpdateLink(r.Context(), user.ID, id, req.URL, req.Body)
	} else {
		updated, err = h.items.UpdateTodo(r.Context(), user.ID, id, req.Title, req.IsComplete)
	}
	if err != nil {
		if errors.Is(err, store.ErrURLInvalid) {
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_url")
			return
		}
		if errors.Is(err, store.ErrURLTaken) {
			writeError(w, http.StatusConflict, err.Error(), "url_conflict")
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "not_found")
			return
		}
		h.logger.Error().Err(err).Msg("update item")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if item.IsLink() {
		h.urls.Invalidate(r.Context(), item.ShortCode.String)
	}

	writeJSON(w, http.StatusOK, toItemResponse(updated))
}

// Delete removes an item owned by the caller.
// DELETE /api/v1/todos/{id}
//
// @Summary      Delete an item
// @Tags         Items
// @Param        id   path  int  true  "Item ID"
// @Success      204  "No Content"
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Security     BearerToken
// @Router       /todos/{id} [delete]
func (h *itemsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found", "not_found")
		return
	}

	// Fetch first so the cache entry for a link item can be invalidated.
	item, err := h.items.GetByOwner(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "not_found")
			return
		}
		h.logger.Error().Err(err).Msg("load item for delete")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if err := h.items.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "not_found")
			return
		}
		h.logger.Error().Err(err).Msg("delete item")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if item.IsLink() {
		h.urls.Invalidate(r.Context(), item.ShortCode.String)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats returns visit counts for all of the caller's link items.
// GET /api/v1/todos/stats
//
// @Summary      Visit stats
// @Description  Returns visit counts for the caller's link items.
// @Tags         Items
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      401  {object}  errorBody
// @Security     BearerToken
// @Router       /todos/stats [get]
func (h *itemsAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	stats, err := h.items.Stats(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("item stats")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	resp := StatsResponse{Data: make([]StatResponse, 0, len(stats))}
	for _, s := range stats {
		resp.Data = append(resp.Data, StatResponse{
			ID:        s.ID,
			URL:       s.URL,
			ShortCode: s.ShortCode,
			Visits:    s.Visits,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// itemID parses the {id} URL parameter. A non-numeric id is treated the same
// as a nonexistent one.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// toItemResponse converts a store.Item to its API representation.
func toItemResponse(item *store.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Title:      item.Title,
		IsComplete: item.IsComplete,
		URL:        item.URL.String,
		ShortCode:  item.ShortCode.String,
		Body:       item.Body,
		Visits:     item.Visits,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
