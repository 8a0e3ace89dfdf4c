// Package handler exposes the sync operations over HTTP. Every response is
// the `{success, data, error}` envelope; service errors are mapped to it and
// never escape.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thevinciapp/vinci-hub/internal/gateway"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respond converts a service result into the response envelope.
func respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), model.Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, model.OK(data))
}

// statusFor maps the error taxonomy onto HTTP statuses. Callers key off the
// envelope, but the status keeps generic HTTP tooling honest.
func statusFor(err error) int {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var nfe *service.NotFoundError
	if errors.As(err, &nfe) {
		return http.StatusNotFound
	}
	var re *gateway.RemoteError
	if errors.As(err, &re) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decode reads a JSON request body.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Msg: "invalid request body"}
	}
	return nil
}
