package http

import (
	"net/http"

	"github.com/NerdyPepper/furby/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every handler under the fixed route layout.
func NewRouter(
	sessions session.Store,
	users *UserHandler,
	products *ProductHandler,
	cart *CartHandler,
	ratings *RatingHandler,
	checkout *CheckoutHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/profile", users.Profile)
		r.Post("/existing", users.Existing)
		r.Post("/login", users.Login)
		r.Post("/logout", users.Logout)
		r.Post("/new", users.Register)
		r.Post("/change_password", users.ChangePassword)
		r.Get("/{uname}", users.Details)
	})

	r.Route("/product", func(r chi.Router) {
		r.Get("/catalog", products.Catalog)
		r.Post("/new", products.Create)
		r.Get("/reviews/{id}", products.Reviews)
		r.Post("/update_product/{id}", products.Update)
		r.Get("/{id}", products.Details)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/items", cart.ListItems)
		r.Get("/total", cart.Total)
		r.Post("/add", cart.AddItem)
		r.Post("/remove", cart.RemoveItem)
	})

	r.Route("/rating", func(r chi.Router) {
		r.Post("/add", ratings.Add)
		r.Post("/remove", ratings.Remove)
	})

	r.Route("/transaction", func(r chi.Router) {
		r.Post("/checkout", checkout.Checkout)
		r.Get("/list", checkout.ListOrders)
	})

	return r
}
