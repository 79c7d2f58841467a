package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Reservations   *ReservationHandler
	AllowedOrigins []string
	Middleware     []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	router.Use(cors.Handler(corsOptions))

	for _, mw := range cfg.Middleware {
		if mw != nil {
			router.Use(mw)
		}
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		newResponder(nil).writeJSON(r.Context(), w, http.StatusOK, map[string]string{
			"message": "Meeting room reservation API is running",
		})
	})

	if cfg.Reservations != nil {
		router.Route("/api", func(api chi.Router) {
			api.Post("/reservations", cfg.Reservations.Create)
			api.Get("/reservations", cfg.Reservations.List)
			api.Get("/next-available", cfg.Reservations.NextAvailable)
		})
	}

	return router
}
