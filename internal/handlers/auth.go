package handlers

import (
	"net/http"

	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/services"
)

// LoginRequest carries the credentials of POST /login. They may also be
// sent as Name and Password query parameters.
type LoginRequest struct {
	Name     string `json:"Name"`
	Password string `json:"Password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.UserInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	u, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if _, err := decodeOptionalJSON(w, r, &req); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	if req.Name == "" && req.Password == "" {
		q := r.URL.Query()
		req.Name, req.Password = q.Get("Name"), q.Get("Password")
	}

	res, err := h.auth.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{User: res.User, Token: res.Token})
}
