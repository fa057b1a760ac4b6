package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
)

type updateCategoryRequest struct {
	CategoryID string `json:"categoryId"`
	domain.CategoryPatch
}

type deleteCategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

type reorderCategoriesRequest struct {
	Categories []domain.OrderUpdate `json:"categories"`
}

// ListCategories returns the caller's categories with their bookmarks.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		res, err := d.Service.ListCategories(r.Context(), uid)
		render(w, r, d, "list_categories", http.StatusOK, res, err, func(c []*domain.Category) envelope {
			return envelope{"categories": c}
		})
	}
}

func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in domain.NewCategory
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.CreateCategory(r.Context(), uid, in)
		render(w, r, d, "create_category", http.StatusCreated, res, err, func(c *domain.Category) envelope {
			return envelope{"category": c}
		})
	}
}

func UpdateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in updateCategoryRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.UpdateCategory(r.Context(), uid, in.CategoryID, in.CategoryPatch)
		render(w, r, d, "update_category", http.StatusOK, res, err, func(c *domain.Category) envelope {
			return envelope{"category": c}
		})
	}
}

// DeleteCategory removes a category and, in the same step, its bookmarks.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in deleteCategoryRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.DeleteCategory(r.Context(), uid, in.CategoryID)
		render(w, r, d, "delete_category", http.StatusOK, res, err, func(n int) envelope {
			return envelope{"deletedBookmarks": n}
		})
	}
}

func ReorderCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var in reorderCategoriesRequest
		if !decode(w, r, &in) {
			return
		}
		res, err := d.Service.ReorderCategories(r.Context(), uid, in.Categories)
		render[struct{}](w, r, d, "reorder_categories", http.StatusOK, res, err, nil)
	}
}
