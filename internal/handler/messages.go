// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
)

// MessageHandler serves the public contact form and the admin inbox.
type MessageHandler struct {
	queries *store.Queries
	events  *service.EventService
	logger  *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(db *sql.DB, events *service.EventService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		queries: store.New(db),
		events:  events,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/contact.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Body  string `json:"body"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if in.Name == "" || in.Body == "" {
		writeAppError(w, apperr.Validation("name and message are required"))
		return
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		writeAppError(w, apperr.Validation("invalid email address"))
		return
	}

	msg, err := h.queries.CreateMessage(r.Context(), store.CreateMessageParams{
		Name:      in.Name,
		Email:     in.Email,
		Body:      in.Body,
		CreatedAt: time.Now(),
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not save message"))
		return
	}

	h.events.LogContact(r.Context(), model.EventLevelInfo, "contact message received", clientAddr(r),
		h.events.RequestMeta(clientAddr(r), r.UserAgent()))

	writeJSON(w, http.StatusCreated, msg)
}

// List serves the admin inbox, newest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.queries.ListMessages(r.Context())
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list messages"))
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// Delete handles DELETE /admin/messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid message id"))
		return
	}

	if err := h.queries.DeleteMessage(r.Context(), id); err != nil {
		writeAppError(w, apperr.Backend(err, "could not delete message"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
