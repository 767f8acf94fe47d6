// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/auth"
	"github.com/lunareve/lunar-go/internal/middleware"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	queries  *store.Queries
	sessions *scs.SessionManager
	events   *service.EventService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *sql.DB, sessions *scs.SessionManager, events *service.EventService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		queries:  store.New(db),
		sessions: sessions,
		events:   events,
		logger:   logger,
	}
}

// Login handles POST /login. A generic error message is returned for both
// unknown emails and bad passwords.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(w, err)
		return
	}
	if body.Email == "" || body.Password == "" {
		writeAppError(w, apperr.Validation("email and password are required"))
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.events.LogAuth(r.Context(), model.EventLevelWarning, "login failed", nil, clientAddr(r),
				h.events.RequestMeta(clientAddr(r), r.UserAgent()))
			writeAppError(w, apperr.Authorization("invalid email or password"))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not look up user"))
		return
	}

	ok, err := auth.CheckPassword(body.Password, user.PasswordHash)
	if err != nil || !ok {
		h.events.LogAuth(r.Context(), model.EventLevelWarning, "login failed", &user.ID, clientAddr(r),
			h.events.RequestMeta(clientAddr(r), r.UserAgent()))
		writeAppError(w, apperr.Authorization("invalid email or password"))
		return
	}

	// Renew the token on privilege change
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		writeAppError(w, apperr.Backend(err, "could not establish session"))
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.events.LogAuth(r.Context(), model.EventLevelInfo, "user logged in", &user.ID, clientAddr(r),
		h.events.RequestMeta(clientAddr(r), r.UserAgent()))

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r)

	if err := h.sessions.Destroy(r.Context()); err != nil {
		writeAppError(w, apperr.Backend(err, "could not end session"))
		return
	}

	if viewer.Authenticated {
		h.events.LogAuth(r.Context(), model.EventLevelInfo, "user logged out", &viewer.UserID, clientAddr(r), nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/me: the current viewer context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetViewer(r))
}
