package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// MessageResponse acknowledges an operation that returns no entity.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statusOverrides replaces the default status of a kind for one route.
type statusOverrides map[apperr.Kind]int

var (
	// Deleting something absent answers 400, not 404.
	deleteStatuses = statusOverrides{apperr.KindNotFound: http.StatusBadRequest}
	// A duplicate movie title answers 400.
	createMovieStatuses = statusOverrides{apperr.KindConflict: http.StatusBadRequest}
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidCredentials, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes err as an ErrorResponse. Only the message of an *apperr.Error
// is exposed; anything else becomes a generic internal failure.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, overrides statusOverrides) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.log.WithError(err).WithField("request_id", chimw.GetReqID(r.Context())).Error("Unclassified error")
		appErr = apperr.Internal(err)
	}

	status := statusFor(appErr.Kind)
	if s, ok := overrides[appErr.Kind]; ok {
		status = s
	}

	writeJSON(w, status, ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func invalidBody(msg string) error {
	return apperr.Validation("Invalid request body", apperr.FieldError{Field: "body", Message: msg})
}

// decodeJSON reads a single JSON object from the request body into v.
// Malformed or empty bodies are a ValidationFailed error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	present, err := decodeOptionalJSON(w, r, v)
	if err != nil {
		return err
	}
	if !present {
		return invalidBody("Request body is empty")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for routes where the body may be
// omitted. It reports false when the body is empty, whatever the
// Content-Length says.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) (bool, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, invalidBody("Request body must be a JSON object")
	}
	if dec.More() {
		return false, invalidBody("Request body must hold a single JSON object")
	}
	return true, nil
}

// urlParam returns the decoded value of a route parameter. chi matches
// against RawPath when the request has one, so only then is the value
// still escaped.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func deleted(what string) MessageResponse {
	return MessageResponse{Success: true, Message: fmt.Sprintf("%s was deleted.", what)}
}
