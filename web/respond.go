// ABOUTME: JSON response helpers for the reference backend
// ABOUTME: Error bodies use {message} or problem details with per-field errors
package web

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/harperreed/rigboard/meetings"
)

type messageBody struct {
	Message string `json:"message"`
}

type problemBody struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

func writeValidation(w http.ResponseWriter, fe meetings.FieldErrors) {
	body := problemBody{
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: make(map[string][]string, len(fe)),
	}
	for field, msg := range fe {
		body.Errors[field] = []string{msg}
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
