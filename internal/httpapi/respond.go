package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"wisatara.id/internal/auth"
	"wisatara.id/internal/catalog"
	"wisatara.id/internal/content"
)

// envelope is the wire shape every endpoint responds with. The console client
// branches on Status alone, so it is always one of "success" or "error".
type envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, r *http.Request, code int, data any) {
	writeJSON(w, code, envelope{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, envelope{
		Status:    "error",
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	respondError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrAlreadyExists):
		respondError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, r, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func handleCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrConflict):
		respondError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func handleContentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
