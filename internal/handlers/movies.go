package handlers

import (
	"net/http"

	"github.com/AnshRaj112/myflix-backend/internal/services"
)

// ListMovies handles GET /movies
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.List(r.Context())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// GetMovie handles GET /movies/{title}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.Get(r.Context(), urlParam(r, "title"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetDirector handles GET /movies/director/{name}
func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.Director(r.Context(), urlParam(r, "name"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GetGenre handles GET /movies/genre/{name}
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	g, err := h.catalog.Genre(r.Context(), urlParam(r, "name"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// CreateMovie handles POST /movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req services.MovieInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	m, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, createMovieStatuses)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMovie handles PUT /movies/{title}
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req services.MovieInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	m, err := h.catalog.Update(r.Context(), urlParam(r, "title"), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMovie handles DELETE /movies/{title}
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	title := urlParam(r, "title")
	if err := h.catalog.Delete(r.Context(), title); err != nil {
		h.fail(w, r, err, deleteStatuses)
		return
	}
	writeJSON(w, http.StatusOK, deleted(title))
}
