package handlers

import (
	"net/http"

	"github.com/AnshRaj112/myflix-backend/internal/services"
)

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{name}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), urlParam(r, "name"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /users/{name}. The body fully replaces the profile.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req services.UserInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	u, err := h.users.Update(r.Context(), urlParam(r, "name"), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{name}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if err := h.users.Delete(r.Context(), name); err != nil {
		h.fail(w, r, err, deleteStatuses)
		return
	}
	writeJSON(w, http.StatusOK, deleted(name))
}

// AddFavorite handles PATCH /users/{name}/movies/{movieID}
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	u, err := h.favorites.Add(r.Context(), urlParam(r, "name"), urlParam(r, "movieID"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// RemoveFavorite handles DELETE /users/{name}/movies/{movieID}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	u, err := h.favorites.Remove(r.Context(), urlParam(r, "name"), urlParam(r, "movieID"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListFavorites handles GET /users/{name}/movies
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := h.favorites.Resolve(r.Context(), urlParam(r, "name"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
