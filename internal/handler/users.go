// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/auth"
	"github.com/lunareve/lunar-go/internal/middleware"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// UserHandler serves public registration and admin user management.
type UserHandler struct {
	queries *store.Queries
	events  *service.EventService
	logger  *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(db *sql.DB, events *service.EventService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		queries: store.New(db),
		events:  events,
		logger:  logger,
	}
}

// Register handles POST /register: a new reader account with the user role.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if in.Name == "" {
		writeAppError(w, apperr.Validation("name must not be empty"))
		return
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		writeAppError(w, apperr.Validation("invalid email address"))
		return
	}
	if len(in.Password) < minPasswordLength {
		writeAppError(w, apperr.Validation("password must be at least %d characters", minPasswordLength))
		return
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not create account"))
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Name:         in.Name,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeAppError(w, apperr.Conflict("email %q is already registered", in.Email))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not create account"))
		return
	}

	h.events.LogAuth(r.Context(), model.EventLevelInfo, "user registered", &user.ID, clientAddr(r),
		h.events.RequestMeta(clientAddr(r), r.UserAgent()))

	writeJSON(w, http.StatusCreated, user)
}

// List serves all user accounts for the admin.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list users"))
		return
	}
	if users == nil {
		users = []store.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateRole handles PUT /admin/users/{id}/role: promote or demote an
// account. Admins cannot change their own role, so there is always someone
// left holding the keys.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid user id"))
		return
	}

	var in struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if !model.IsValidRole(in.Role) {
		writeAppError(w, apperr.Validation("unknown role %q", in.Role))
		return
	}

	viewer := middleware.GetViewer(r)
	if viewer.UserID == id {
		writeAppError(w, apperr.Validation("you cannot change your own role"))
		return
	}

	user, err := h.queries.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{
		ID:        id,
		Role:      in.Role,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("user %d not found", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not update role"))
		return
	}

	h.events.LogAuth(r.Context(), model.EventLevelInfo, "user role changed", &viewer.UserID, clientAddr(r),
		map[string]any{"target_user_id": user.ID, "role": user.Role})

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /admin/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid user id"))
		return
	}

	viewer := middleware.GetViewer(r)
	if viewer.UserID == id {
		writeAppError(w, apperr.Validation("you cannot delete your own account"))
		return
	}

	if _, err := h.queries.GetUserByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("user %d not found", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not load user"))
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		if store.IsForeignKeyViolation(err) {
			writeAppError(w, apperr.Conflict("user %d still owns posts", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not delete user"))
		return
	}

	h.events.LogAuth(r.Context(), model.EventLevelInfo, "user deleted", &viewer.UserID, clientAddr(r),
		map[string]any{"target_user_id": id})

	w.WriteHeader(http.StatusNoContent)
}
