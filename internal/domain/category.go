package domain

import (
	"sort"
	"time"
)

// Category is a named, styled grouping owned by a single user.
// Its bookmarks are only populated on the read path (List).
type Category struct {
	ID      string `json:"_id"`
	UserID  string `json:"userId"`
	Name    string `json:"category"`
	BgColor string `json:"bgcolor"`
	HColor  string `json:"hcolor"`
	Emoji   string `json:"emoji"`

	// Order is a sort key scoped to the owning user.
	Order int64 `json:"order"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Bookmarks []*Bookmark `json:"bookmarks"`
}

// NewCategory carries the fields a caller may set on creation.
type NewCategory struct {
	Name    string `json:"category"`
	BgColor string `json:"bgcolor"`
	HColor  string `json:"hcolor"`
	Emoji   string `json:"emoji"`
}

// CategoryPatch is a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name    *string `json:"category,omitempty"`
	BgColor *string `json:"bgcolor,omitempty"`
	HColor  *string `json:"hcolor,omitempty"`
	Emoji   *string `json:"emoji,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.BgColor == nil && p.HColor == nil && p.Emoji == nil
}

// Apply copies the set fields onto c and bumps UpdatedAt.
func (p CategoryPatch) Apply(c *Category, now time.Time) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.BgColor != nil {
		c.BgColor = *p.BgColor
	}
	if p.HColor != nil {
		c.HColor = *p.HColor
	}
	if p.Emoji != nil {
		c.Emoji = *p.Emoji
	}
	c.UpdatedAt = now
}

// OrderUpdate assigns a new sort key to one entity of a reorder batch.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int64  `json:"order"`
}

// SortCategories orders by Order, then CreatedAt, then ID.
// Equal orders only happen after a manual reorder gave two entries the same key.
func SortCategories(categories []*Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
