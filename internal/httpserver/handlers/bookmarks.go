package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
)

type updateBookmarkRequest struct {
	BookmarkID string `json:"bookmarkId"`
	domain.BookmarkPatch
}

type deleteBookmarkRequest struct {
	BookmarkID string `json:"bookmarkId"`
}

type reorderBookmarksRequest struct {
	CategoryID string               `json:"categoryId"`
	Bookmarks  []domain.OrderUpdate `json:"bookmarks"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		res, err := d.Service.ListBookmarks(r.Context(), uid, chi.URLParam(r, "categoryId"))
		render(w, r, d, "list_bookmarks", http.StatusOK, res, err, func(b []*domain.Bookmark) envelope {
			return envelope{"bookmarks": b}
		})
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in domain.NewBookmark
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.CreateBookmark(r.Context(), uid, in)
		render(w, r, d, "create_bookmark", http.StatusCreated, res, err, func(b *domain.Bookmark) envelope {
			return envelope{"bookmark": b}
		})
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in updateBookmarkRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.UpdateBookmark(r.Context(), uid, in.BookmarkID, in.BookmarkPatch)
		render(w, r, d, "update_bookmark", http.StatusOK, res, err, func(b *domain.Bookmark) envelope {
			return envelope{"bookmark": b}
		})
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in deleteBookmarkRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.DeleteBookmark(r.Context(), uid, in.BookmarkID)
		render[struct{}](w, r, d, "delete_bookmark", http.StatusOK, res, err, nil)
	}
}

// ReorderBookmarks applies a batch of order changes inside one category.
func ReorderBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in reorderBookmarksRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.ReorderBookmarks(r.Context(), uid, in.CategoryID, in.Bookmarks)
		render[struct{}](w, r, d, "reorder_bookmarks", http.StatusOK, res, err, nil)
	}
}

// SearchBookmarks ranks the caller's bookmarks against ?q=.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		limit := d.SearchLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeFailure(w, http.StatusBadRequest, "limit: must be a positive integer")
				return
			}
			if limit <= 0 || n < limit {
				limit = n
			}
		}
		res, err := d.Service.Search(r.Context(), uid, r.URL.Query().Get("q"), limit)
		render(w, r, d, "search", http.StatusOK, res, err, func(c []*domain.BookmarkCandidate) envelope {
			return envelope{"results": c}
		})
	}
}
