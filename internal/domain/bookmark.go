package domain

import (
	"sort"
	"time"
)

const (
	// MaxClickHistory is the number of recent clicks kept per bookmark.
	MaxClickHistory = 50

	// SecondsSavedPerClick is the time a single bookmark click is credited with.
	SecondsSavedPerClick = 10

	// MaxDeviceIDLength bounds the device id stored with each click, in bytes.
	MaxDeviceIDLength = 128
)

// Bookmark is a saved link inside a category.
//
// It carries no user reference: ownership is always resolved through
// its category.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID         string `json:"_id"`
	CategoryID string `json:"categoryId"`

	// ─────────────────────────────
	// User-editable fields
	// ─────────────────────────────

	Name  string `json:"name"`
	Link  string `json:"link"`
	Logo  string `json:"logo"`
	Notes string `json:"notes,omitempty"`

	// Order is a sort key scoped to the owning category.
	Order int64 `json:"order"`

	// ─────────────────────────────
	// Click ledger
	// ─────────────────────────────

	ClickCount   int64        `json:"clickCount"`
	LastClicked  *time.Time   `json:"lastClicked"`
	ClickHistory []ClickEntry `json:"clickHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClickEntry is one element of a bookmark's recent click history.
type ClickEntry struct {
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"deviceId"`
}

// NewBookmark carries the fields a caller may set on creation.
type NewBookmark struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Link       string `json:"link"`
	Logo       string `json:"logo"`
	Notes      string `json:"notes,omitempty"`
}

// BookmarkPatch is a partial update of the user-editable fields.
// Order and click data are never touched by a patch.
type BookmarkPatch struct {
	Name  *string `json:"name,omitempty"`
	Link  *string `json:"link,omitempty"`
	Logo  *string `json:"logo,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p BookmarkPatch) IsEmpty() bool {
	return p.Name == nil && p.Link == nil && p.Logo == nil && p.Notes == nil
}

// Apply copies the set fields onto b and bumps UpdatedAt.
func (p BookmarkPatch) Apply(b *Bookmark, now time.Time) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Link != nil {
		b.Link = *p.Link
	}
	if p.Logo != nil {
		b.Logo = *p.Logo
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	b.UpdatedAt = now
}

// RecordClick increments the counter and appends to the bounded history,
// evicting the oldest entries first.
func (b *Bookmark) RecordClick(click ClickEntry) {
	b.ClickCount++
	at := click.Timestamp
	b.LastClicked = &at
	b.ClickHistory = append(b.ClickHistory, click)
	if n := len(b.ClickHistory); n > MaxClickHistory {
		trimmed := make([]ClickEntry, MaxClickHistory)
		copy(trimmed, b.ClickHistory[n-MaxClickHistory:])
		b.ClickHistory = trimmed
	}
}

// SortBookmarks orders by Order, then CreatedAt, then ID.
func SortBookmarks(bookmarks []*Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		a, b := bookmarks[i], bookmarks[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
