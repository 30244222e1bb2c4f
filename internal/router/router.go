// Package router sets up all HTTP routes and middleware chains for the
// MedShop API. Resource routes are served at the root and again under /api.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"medshop/internal/handlers"
	"medshop/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	// CORSOrigins lists the origins allowed to call the API. Empty allows all.
	CORSOrigins []string

	// WriteLimiter limits POST requests per client. Nil disables limiting.
	WriteLimiter middleware.Limiter
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	r.Get("/health", healthHandler)

	routes := resourceRoutes(api, opts.WriteLimiter)
	routes(r)
	r.Route("/api", routes)

	return r
}

func resourceRoutes(api *handlers.API, limiter middleware.Limiter) func(chi.Router) {
	writes := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		writes = middleware.RateLimit(limiter)
	}

	return func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Get("/{id}", api.CategoryGet)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", api.ProductsList)
			r.Get("/users-with-expensive-products", api.UsersWithExpensiveProducts)
			r.Get("/count-orders", api.CountOrders)
			r.With(writes).Post("/purchase", api.ProductPurchase)
			r.Get("/{id}", api.ProductGet)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", api.UsersList)
			r.Get("/{id}", api.UserGet)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", api.OrdersList)
			r.With(writes).Post("/", api.OrderCreate)
			r.Get("/{id}", api.OrderGet)
		})
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not found"}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method not allowed"}`))
}
