package http

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/NerdyPepper/furby/internal/repository"
	"github.com/NerdyPepper/furby/internal/service"
	"github.com/lib/pq"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps sentinel errors from the service and
// repository layers to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in")
	case errors.Is(err, service.ErrWrongPassword):
		respondError(w, http.StatusUnauthorized, "wrong_credentials", "invalid username or password")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrCartLineNotFound):
		respondError(w, http.StatusNotFound, "line_not_found", "item not in cart")
	case errors.Is(err, repository.ErrEmptyCart):
		respondError(w, http.StatusNotFound, "empty_cart", "cart is empty, nothing to checkout")
	case errors.Is(err, repository.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, "customer_not_found", "customer not found")
	case errors.Is(err, repository.ErrRatingNotFound):
		respondError(w, http.StatusNotFound, "rating_not_found", "rating not found")
	case errors.Is(err, repository.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, "username_taken", "username already taken")
	case errors.Is(err, repository.ErrInconsistentCart):
		log.Printf("inconsistent cart: %v", err)
		respondError(w, http.StatusInternalServerError, "inconsistent_cart", "cart references a missing product")
	case isTransientStorageError(err):
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage temporarily unavailable, retry")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// isTransientStorageError spots failures a retry can fix: timeouts,
// dropped driver connections, postgres class 08 (connection exception)
// and raw socket errors.
func isTransientStorageError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
