package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateNewCategory(t *testing.T) {
	require.NoError(t, ValidateNewCategory(NewCategory{Name: "Tools"}, DefaultMaxNameLength))

	err := ValidateNewCategory(NewCategory{Name: "  "}, DefaultMaxNameLength)
	require.ErrorIs(t, err, ErrValidation)

	err = ValidateNewCategory(NewCategory{Name: strings.Repeat("x", 65)}, DefaultMaxNameLength)
	require.ErrorIs(t, err, ErrValidation)

	// multibyte names are measured in runes
	require.NoError(t, ValidateNewCategory(NewCategory{Name: strings.Repeat("é", 64)}, DefaultMaxNameLength))
}

func TestValidateNewBookmark(t *testing.T) {
	valid := NewBookmark{CategoryID: "c1", Name: "GitHub", Link: "https://github.com", Logo: "https://github.com/favicon.ico"}

	tests := []struct {
		name    string
		mutate  func(b *NewBookmark)
		wantErr bool
	}{
		{name: "valid", mutate: func(*NewBookmark) {}},
		{name: "missing category", mutate: func(b *NewBookmark) { b.CategoryID = "" }, wantErr: true},
		{name: "empty name", mutate: func(b *NewBookmark) { b.Name = "" }, wantErr: true},
		{name: "empty logo", mutate: func(b *NewBookmark) { b.Logo = "" }, wantErr: true},
		{name: "relative link", mutate: func(b *NewBookmark) { b.Link = "/foo" }, wantErr: true},
		{name: "no scheme", mutate: func(b *NewBookmark) { b.Link = "github.com" }, wantErr: true},
		{name: "ftp scheme", mutate: func(b *NewBookmark) { b.Link = "ftp://files.example.com" }, wantErr: true},
		{name: "http with path", mutate: func(b *NewBookmark) { b.Link = "http://example.com/a?b=c" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateNewBookmark(in, DefaultMaxNameLength)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateBookmarkPatch(t *testing.T) {
	assert.ErrorIs(t, ValidateBookmarkPatch(BookmarkPatch{}, 0), ErrValidation)
	assert.NoError(t, ValidateBookmarkPatch(BookmarkPatch{Notes: strPtr("")}, 0))
	assert.ErrorIs(t, ValidateBookmarkPatch(BookmarkPatch{Link: strPtr("nope")}, 0), ErrValidation)
	assert.ErrorIs(t, ValidateBookmarkPatch(BookmarkPatch{Logo: strPtr(" ")}, 0), ErrValidation)
	assert.NoError(t, ValidateBookmarkPatch(BookmarkPatch{Link: strPtr("https://go.dev")}, 0))
}

func TestValidateOrderBatch(t *testing.T) {
	assert.ErrorIs(t, ValidateOrderBatch("bookmarks", nil), ErrValidation)
	assert.ErrorIs(t, ValidateOrderBatch("bookmarks", []OrderUpdate{{ID: ""}}), ErrValidation)
	assert.ErrorIs(t, ValidateOrderBatch("bookmarks", []OrderUpdate{{ID: "a"}, {ID: "a", Order: 1}}), ErrValidation)
	assert.NoError(t, ValidateOrderBatch("bookmarks", []OrderUpdate{{ID: "a", Order: 1}, {ID: "b"}}))

	tests := []struct {
		name    string
		order   int64
		wantErr bool
	}{
		{"upper bound", MaxOrder, false},
		{"lower bound", -MaxOrder, false},
		{"above bound", MaxOrder + 1, true},
		{"max int64", math.MaxInt64, true},
		{"min int64", math.MinInt64, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderBatch("bookmarks", []OrderUpdate{{ID: "a", Order: tt.order}})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindValidation, KindOf(Invalid("name", "is required")))
	assert.Equal(t, KindAuthorization, KindOf(ErrNotFound))
	assert.Equal(t, KindInfrastructure, KindOf(assert.AnError))
}
