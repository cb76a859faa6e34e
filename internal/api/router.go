package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/user/{userId}", func(r chi.Router) {
		r.Get("/bankroll", h.GetBankrollHandler)
		r.Get("/wagers", h.ListWagersHandler)
		r.Post("/wagers", h.PlaceWagerHandler)
		r.Post("/snapshots", h.CreateSnapshotHandler)
	})

	r.Post("/admin/settlements/run", h.RunSettlementsHandler)

	return r
}
