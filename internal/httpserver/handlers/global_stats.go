package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/logger"
)

// GlobalStats returns the latest global snapshot. Before the first snapshot
// is taken the payload is null.
func GlobalStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Snapshots.LatestSnapshot(r.Context())
		if err != nil {
			d.Logger.Error("failed to read stats snapshot",
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.Error(err))
			writeFailure(w, http.StatusInternalServerError, msgInternal)
			return
		}
		writeSuccess(w, http.StatusOK, "", envelope{"snapshot": snap})
	}
}
