package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireToken(d.Verifier, d.Logger))

		r.Get("/categories", handlers.ListCategories(d))
		r.Put("/categories/reorder", handlers.ReorderCategories(d))
		r.Post("/category", handlers.CreateCategory(d))
		r.Put("/category", handlers.UpdateCategory(d))
		r.Delete("/category", handlers.DeleteCategory(d))

		r.Get("/bookmarks/{categoryId}", handlers.ListBookmarks(d))
		r.Post("/bookmark", handlers.CreateBookmark(d))
		r.Put("/bookmark", handlers.UpdateBookmark(d))
		r.Delete("/bookmark", handlers.DeleteBookmark(d))
		r.Put("/reorder", handlers.ReorderBookmarks(d))

		r.Get("/search", handlers.SearchBookmarks(d))
	})
}
