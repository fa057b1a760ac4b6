package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
)

// Metrics serves the Prometheus exposition format.
func Metrics(d deps.Deps) http.Handler {
	if d.Metrics == nil {
		return http.NotFoundHandler()
	}
	return d.Metrics.Handler()
}
