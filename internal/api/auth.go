package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/store"
)

// authAPIHandler provides registration, login, and profile handlers.
type authAPIHandler struct {
	users  *store.UserStore
	tokens auth.TokenStore
	logger zerolog.Logger
}

func registerAuthRoutes(r chi.Router, users *store.UserStore, tokens auth.TokenStore, logger zerolog.Logger) {
	h := &authAPIHandler{users: users, tokens: tokens, logger: logger}
	r.Get("/auth/me", h.Me)
}

// registerPublicAuthRoutes registers the routes reachable without a bearer
// token. These are mounted outside the authenticated sub-router.
func registerPublicAuthRoutes(r chi.Router, users *store.UserStore, tokens auth.TokenStore, logger zerolog.Logger) {
	h := &authAPIHandler{users: users, tokens: tokens, logger: logger}
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// Register creates a new account. Username and email are unique across all
// users; the password is stored as a bcrypt hash.
// POST /api/v1/auth/register
//
// @Summary      Register
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account details"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	if err := store.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if err := store.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if err := store.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("hash password")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, err.Error(), "username_conflict")
			return
		}
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error(), "email_conflict")
			return
		}
		h.logger.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and issues a bearer token. The plaintext token
// appears in this response once and is never retrievable again.
// POST /api/v1/auth/login
//
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required", "bad_request")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a bad password so the endpoint does not
			// reveal which emails have accounts.
			writeError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
			return
		}
		h.logger.Error().Err(err).Msg("load user for login")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
		return
	}

	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		h.logger.Error().Err(err).Msg("generate token")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	if _, err := h.tokens.Create(r.Context(), user.ID, "login", hash, nil); err != nil {
		h.logger.Error().Err(err).Msg("persist login token")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:  toUserResponse(user),
		Token: plaintext,
	})
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
//
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  errorBody
// @Security     BearerToken
// @Router       /auth/me [get]
func (h *authAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *store.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
