package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	group string
	reg   Registrar
	mws   []Middleware
}

var registry []entry

// Register adds a route group from an init() func, with optional
// middlewares applied to the whole group.
func Register(group string, reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{group: group, reg: reg, mws: mws})
}

// RegisterAll mounts every registered group. Called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		target := r
		if len(e.mws) > 0 {
			target = r.With(e.mws...)
		}
		e.reg(target, d)

		if d.Logger != nil {
			d.Logger.Debug("route group registered", logger.String("group", e.group))
		}
	}
}
