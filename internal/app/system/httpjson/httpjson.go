// Package httpjson writes JSON responses and maps apperr kinds to HTTP
// status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBody caps request bodies read by Decode.
const maxBody = 1 << 20

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// NoContent writes 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindWorkflow:
		return http.StatusConflict
	case apperr.KindStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an ErrorBody and logs it. Store and unknown errors
// are logged at error level and their causes are not sent to the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := Status(err)
	body := ErrorBody{Field: apperr.FieldOf(err)}

	var ae *apperr.Error
	switch {
	case status >= 500:
		body.Error = http.StatusText(status)
		if errors.As(err, &ae) && ae.Kind == apperr.KindStore {
			body.Error = ae.Msg
		}
		if log != nil {
			log.Error("request failed", zap.Int("status", status), zap.Error(err))
		}
	case errors.As(err, &ae):
		body.Error = ae.Msg
		if log != nil {
			log.Info("request rejected",
				zap.Int("status", status),
				zap.String("kind", ae.Kind.String()),
				zap.String("field", ae.Field),
				zap.String("msg", ae.Msg))
		}
	default:
		body.Error = err.Error()
	}
	Write(w, status, body)
}

// Unauthorized writes 401 with a fixed body.
func Unauthorized(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, ErrorBody{Error: "unauthorized"})
}

// Decode reads a JSON body into v. Unknown fields and trailing data are
// rejected as validation errors.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("body", "request body is required")
		}
		return apperr.Validation("body", "malformed JSON: "+err.Error())
	}
	if dec.More() {
		return apperr.Validation("body", "unexpected data after JSON object")
	}
	return nil
}
