package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
)

type Handlers struct {
	Invoices       *invoice.Handler
	Estimates      *invoice.Handler
	PurchaseOrders *invoice.Handler
}

func New(authMW *auth.Middleware, allowedOrigins []string, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			auth.HeaderEmail, auth.HeaderName, auth.HeaderProfile,
		},
		MaxAge: 300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMW.Identify)

		r.Route("/invoices", v1.Invoices.Routes)
		r.Route("/estimates", v1.Estimates.Routes)
		r.Route("/purchase-orders", v1.PurchaseOrders.Routes)
	})

	return router
}
