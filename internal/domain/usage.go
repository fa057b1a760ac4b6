package domain

import "time"

// UsageStats is the per-user click aggregate.
// A user who never clicked anything has the zero value.
type UsageStats struct {
	TotalClicks         int64        `json:"totalClicks"`
	TimeSaved           int64        `json:"timeSaved"` // seconds
	LastClickedBookmark *LastClicked `json:"lastClickedBookmark"`
}

// LastClicked points at the most recently clicked bookmark.
type LastClicked struct {
	BookmarkID string    `json:"bookmarkId"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

// GlobalSnapshot is a point-in-time count of everything in the store.
type GlobalSnapshot struct {
	Users      int64     `json:"users"`
	Categories int64     `json:"categories"`
	Bookmarks  int64     `json:"bookmarks"`
	Clicks     int64     `json:"clicks"`
	TakenAt    time.Time `json:"takenAt"`
}
