package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/mw"
)

func init() { Register("clicks", registerClicks) }

func registerClicks(r chi.Router, d deps.Deps) {
	limit := mw.RateLimitConfig{
		Burst:         d.ClickBurst,
		RefillPerMin:  d.ClickRefillPerMin,
		MaxEntries:    10000,
		SweepInterval: time.Minute,
		IdleTTL:       15 * time.Minute,
		TrustProxy:    d.TrustProxy,
		Key:           mw.UserKey,
	}
	if d.Metrics != nil {
		limit.OnLimit = d.Metrics.RateLimited.Inc
	}

	r.Route("/api/clicks", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireToken(d.Verifier, d.Logger))

		r.With(mw.RateLimit(limit)).Post("/track", handlers.TrackClick(d))
		r.Post("/stats", handlers.ClickStats(d))
	})
}
