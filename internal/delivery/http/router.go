package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 30 * time.Second

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/api/transfers", h.HandleInitiateTransfer)
	r.Get("/api/transactions", h.HandleListTransactions)
	r.Post("/api/profiles", h.HandleRegisterProfile)

	// The payment gateway redirects the browser here after checkout.
	r.Get("/payment/verify", h.HandleVerifyTransfer)

	r.Get("/healthz", h.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
