package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// detailResponse mirrors the error body shape of the API.
type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Authentication failures
// carry a fresh challenge so the client can retry; upstream failures answer
// with generic messages only.
func writeError(w http.ResponseWriter, challenge string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", challenge)
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrNotAdmin):
		writeJSON(w, http.StatusForbidden, detailResponse{Detail: model.ErrNotAdmin.Error()})
	case errors.Is(err, model.ErrSessionConflict):
		writeJSON(w, http.StatusConflict, detailResponse{Detail: model.ErrSessionConflict.Error()})
	case errors.Is(err, model.ErrUpstreamAuth):
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "authentication failed"})
	case errors.Is(err, model.ErrUpstreamQuery):
		writeJSON(w, http.StatusBadGateway, detailResponse{Detail: "firewall query failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}
