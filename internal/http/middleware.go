package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/NerdyPepper/furby/internal/session"
)

// SessionCookieName is the cookie the login endpoint sets. It holds
// only the opaque session token.
const SessionCookieName = "user-login"

// AuthMiddleware resolves the session cookie into a customer identity
// and stashes it in the request context. Requests without a valid
// session pass through anonymous; each handler decides whether that is
// a 401.
func AuthMiddleware(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := store.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					log.Printf("session resolve error: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), "identity", identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFromContext returns the resolved identity, or a zero Identity
// for anonymous requests.
func identityFromContext(ctx context.Context) session.Identity {
	if identity, ok := ctx.Value("identity").(session.Identity); ok {
		return identity
	}
	return session.Identity{}
}
