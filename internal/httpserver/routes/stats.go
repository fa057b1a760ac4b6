package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/mw"
)

func init() { Register("stats", registerStats) }

func registerStats(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireToken(d.Verifier, d.Logger),
	).Get("/api/stats/global", handlers.GlobalStats(d))
}
