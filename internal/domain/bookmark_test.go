package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkRecordClick_TrimsHistory(t *testing.T) {
	b := &Bookmark{ID: "b1"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxClickHistory+7; i++ {
		b.RecordClick(ClickEntry{Timestamp: base.Add(time.Duration(i) * time.Second), DeviceID: fmt.Sprintf("dev-%d", i)})
	}

	assert.Equal(t, int64(MaxClickHistory+7), b.ClickCount)
	require.Len(t, b.ClickHistory, MaxClickHistory)
	// oldest entries are evicted first
	assert.Equal(t, "dev-7", b.ClickHistory[0].DeviceID)
	assert.Equal(t, fmt.Sprintf("dev-%d", MaxClickHistory+6), b.ClickHistory[MaxClickHistory-1].DeviceID)
	require.NotNil(t, b.LastClicked)
	assert.True(t, b.LastClicked.Equal(base.Add(time.Duration(MaxClickHistory+6)*time.Second)))
}

func TestSortBookmarks_TieBreak(t *testing.T) {
	now := time.Now()
	bookmarks := []*Bookmark{
		{ID: "c", Order: 1, CreatedAt: now},
		{ID: "b", Order: 0, CreatedAt: now.Add(time.Second)},
		{ID: "a", Order: 0, CreatedAt: now.Add(time.Second)},
		{ID: "d", Order: 0, CreatedAt: now},
	}

	SortBookmarks(bookmarks)

	ids := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
}

func TestCategoryPatchApply(t *testing.T) {
	c := &Category{Name: "Old", BgColor: "#fff", Emoji: "🔧"}
	now := time.Now()
	name := "New"

	CategoryPatch{Name: &name}.Apply(c, now)

	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "#fff", c.BgColor)
	assert.Equal(t, "🔧", c.Emoji)
	assert.Equal(t, now, c.UpdatedAt)
}
