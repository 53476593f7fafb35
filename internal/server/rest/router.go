package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.apiHealth)

		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)

		r.Group(func(r chi.Router) {
			r.Use(Guard(s.sessions, s.extractor))

			r.Get("/auth/me", s.me)

			r.Get("/inventory", s.listInventory)

			r.Get("/stock-movements", s.listMovements)
			r.Post("/stock-movements", s.createMovement)

			r.Get("/delivery-confirmations", s.listDeliveries)
			r.Post("/delivery-confirmations", s.createDelivery)
			r.Get("/delivery-confirmations/order/{orderID}", s.deliveryByOrder)
		})
	})

	return r
}
