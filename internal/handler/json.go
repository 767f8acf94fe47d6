// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API surface.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lunareve/lunar-go/internal/apperr"
)

// APIError is the JSON error envelope.
type APIError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	writeJSON(w, statusCode, apiErr)
}

// writeAppError maps an application error onto an HTTP status and writes the
// JSON envelope. Unclassified errors become a 500 with a generic message.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindAuthorization:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindStorage, apperr.KindBackend:
		status = http.StatusInternalServerError
		slog.Error("internal error", "kind", kind.String(), "error", err)
	}

	writeError(w, status, kind.String(), apperr.UserMessage(err))
}

// decodeJSON parses the request body into v, limiting body size.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	// Reject trailing garbage
	if dec.More() {
		return apperr.Validation("invalid request body")
	}
	return nil
}
