package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shiwanibaghel76/dairybook/internal/customers"
	"github.com/shiwanibaghel76/dairybook/internal/entries"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeError maps domain errors onto HTTP statuses: invalid input is
// 400, a reference to a missing customer is 422, a missing target is
// 404, name and deletion conflicts are 409, everything else is 500.
func (s *server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customers.ErrNameRequired),
		errors.Is(err, entries.ErrQtyNotPositive),
		errors.Is(err, entries.ErrBadDate):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, entries.ErrNoSuchCustomer):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, customers.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, customers.ErrDuplicateName),
		errors.Is(err, customers.ErrHasEntries):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		s.log.Error("request failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
