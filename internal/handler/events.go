// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/store"
)

// EventHandler serves the admin audit log.
type EventHandler struct {
	queries *store.Queries
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(db *sql.DB) *EventHandler {
	return &EventHandler{queries: store.New(db)}
}

// List serves audit events, newest first.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{Limit: limit, Offset: offset})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list events"))
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
