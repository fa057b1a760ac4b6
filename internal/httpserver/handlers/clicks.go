package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
)

type trackClickRequest struct {
	BookmarkID string `json:"bookmarkId"`
}

// TrackClick records a click. The device comes from the device-id header or
// a user-agent/IP fingerprint.
func TrackClick(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in trackClickRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.TrackClick(r.Context(), uid, in.BookmarkID, DeviceID(r, d.TrustProxy))
		if err == nil && res.Success && d.Metrics != nil {
			d.Metrics.ClicksTracked.Inc()
		}
		render(w, r, d, "track_click", http.StatusOK, res, err, func(b *domain.Bookmark) envelope {
			return envelope{
				"clickCount":  b.ClickCount,
				"lastClicked": b.LastClicked,
			}
		})
	}
}

// ClickStats returns the caller's usage aggregate.
func ClickStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		res, err := d.Service.Stats(r.Context(), uid)
		render(w, r, d, "click_stats", http.StatusOK, res, err, func(s *domain.UsageStats) envelope {
			return envelope{"stats": s}
		})
	}
}
