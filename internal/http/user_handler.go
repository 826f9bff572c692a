package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/service"
	"github.com/NerdyPepper/furby/internal/session"
	"github.com/go-chi/chi/v5"
)

type CustomerService interface {
	Register(ctx context.Context, input *domain.NewCustomer) (*domain.Customer, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Customer, error)
	ChangePassword(ctx context.Context, customerID int64, oldPassword, newPassword string) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	Profile(ctx context.Context, customerID int64) (*service.Profile, error)
}

type UserHandler struct {
	customers CustomerService
	sessions  session.Store
	timeout   time.Duration
}

func NewUserHandler(customers CustomerService, sessions session.Store, timeout time.Duration) *UserHandler {
	return &UserHandler{
		customers: customers,
		sessions:  sessions,
		timeout:   timeout,
	}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequestDTO struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ExistingRequestDTO struct {
	Username string `json:"username"`
}

// POST /user/new
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.NewCustomer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "username and password are required")
		return
	}

	customer, err := h.customers.Register(ctx, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// POST /user/login verifies the credentials, issues a session and
// sets the cookie. A request that already carries a valid session is a
// no-op success, matching how browsers re-post login pages.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if identity := identityFromContext(r.Context()); identity.CustomerID != 0 {
		respondJSON(w, http.StatusOK, map[string]string{"status": "already logged in"})
		return
	}

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer, err := h.customers.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	token, err := h.sessions.Create(ctx, session.Identity{
		CustomerID: customer.ID,
		Username:   customer.Username,
	})
	if err != nil {
		log.Printf("session create error: %v", err)
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged in"})
}

// POST /user/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not logged in")
		return
	}

	if err := h.sessions.Revoke(ctx, cookie.Value); err != nil {
		log.Printf("session revoke error: %v", err)
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// POST /user/existing
func (h *UserHandler) Existing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ExistingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	exists, err := h.customers.UsernameExists(ctx, req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// POST /user/change_password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to change password")
		return
	}

	var req ChangePasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "invalid_password", "new_password is required")
		return
	}

	if err := h.customers.ChangePassword(ctx, identity.CustomerID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// GET /user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to view profile")
		return
	}

	profile, err := h.customers.Profile(ctx, identity.CustomerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GET /user/{uname} serves public details, credential hash excluded by the
// domain type's json tags.
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	uname := chi.URLParam(r, "uname")
	customer, err := h.customers.GetByUsername(ctx, uname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}
