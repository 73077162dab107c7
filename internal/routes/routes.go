package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/myflix-backend/internal/handlers"
)

// SetupRoutes registers the API on r. guard protects everything except
// registration, login, documentation and health; loginLimit wraps login only.
func SetupRoutes(r chi.Router, h *handlers.Handler, guard, loginLimit func(http.Handler) http.Handler) {
	// Public routes
	r.Get("/health", h.Health)
	r.Get("/documentation", h.Documentation)
	r.Post("/users", h.Register)
	r.With(loginLimit).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(guard)

		r.Get("/", h.Welcome)

		// Users
		r.Get("/users", h.ListUsers)
		r.Get("/users/{name}", h.GetUser)
		r.Put("/users/{name}", h.UpdateUser)
		r.Delete("/users/{name}", h.DeleteUser)

		// Favorites
		r.Get("/users/{name}/movies", h.ListFavorites)
		r.Patch("/users/{name}/movies/{movieID}", h.AddFavorite)
		r.Delete("/users/{name}/movies/{movieID}", h.RemoveFavorite)

		// Legacy capitalised favorites paths (older clients remove with POST)
		r.Patch("/users/{name}/Movies/{movieID}", h.AddFavorite)
		r.Post("/users/{name}/Movies/{movieID}", h.RemoveFavorite)

		// Movies
		r.Get("/movies", h.ListMovies)
		r.Post("/movies", h.CreateMovie)
		r.Get("/movies/director/{name}", h.GetDirector)
		r.Get("/movies/genre/{name}", h.GetGenre)
		r.Get("/movies/{title}", h.GetMovie)
		r.Put("/movies/{title}", h.UpdateMovie)
		r.Delete("/movies/{title}", h.DeleteMovie)
	})
}
