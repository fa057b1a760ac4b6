package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	LastRun    string `json:"last_run,omitempty"`
	Users      *int64 `json:"users,omitempty"`
	Categories *int64 `json:"categories,omitempty"`
	Bookmarks  *int64 `json:"bookmarks,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each component: store, statistics, identity.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"store":      checkStore(r.Context(), d),
			"statistics": checkStatistics(r.Context(), d),
			"identity": {
				OK:   d.Verifier != nil,
				Mode: "jwt-hs256",
			},
		}

		response := infraResponse{
			Status:     determineStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineStatus(components map[string]componentStatus) string {
	// Without a store or identity nothing works
	for _, name := range []string{"store", "identity"} {
		if c, exists := components[name]; exists && !c.OK {
			return "critical"
		}
	}

	// Statistics are non-critical
	if stats, exists := components["statistics"]; exists && !stats.OK {
		return "degraded"
	}

	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreKind,
			Impact: "api-unavailable",
			Error:  "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreKind,
			Impact: "api-unavailable",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:   true,
		Mode: d.StoreKind,
	}
}

func checkStatistics(ctx context.Context, d deps.Deps) componentStatus {
	if d.Snapshots == nil {
		return componentStatus{OK: false, Impact: "global-stats-disabled", Error: "not configured"}
	}
	snap, err := d.Snapshots.LatestSnapshot(ctx)
	if err != nil {
		return componentStatus{OK: false, Impact: "global-stats-stale", Error: err.Error()}
	}
	if snap == nil {
		return componentStatus{OK: true, LastRun: "never"}
	}
	return componentStatus{
		OK:         true,
		LastRun:    snap.TakenAt.Format("2006-01-02 15:04:05"),
		Users:      &snap.Users,
		Categories: &snap.Categories,
		Bookmarks:  &snap.Bookmarks,
	}
}
