// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for viewer context loading,
// authorization, rate limiting, and CSRF protection.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyViewer holds the viewer context for the request.
const ContextKeyViewer ContextKey = "viewer"

// SessionKeyUserID is the session key storing the logged-in user's ID.
const SessionKeyUserID = "user_id"

// LoadViewer resolves the session into a viewer context on every request.
// Requests without a valid session proceed as the anonymous viewer; a
// session pointing at a deleted user is destroyed.
func LoadViewer(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			viewer := model.NewViewer(user.ID, user.Name, user.Role)
			ctx := context.WithValue(r.Context(), ContextKeyViewer, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewer retrieves the viewer context for the request, falling back to
// the anonymous viewer.
func GetViewer(r *http.Request) model.Viewer {
	viewer, ok := r.Context().Value(ContextKeyViewer).(model.Viewer)
	if !ok {
		return model.Anonymous
	}
	return viewer
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetViewer(r).Authenticated {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests from non-admin viewers with 401 or 403 and
// logs denied attempts.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := GetViewer(r)
			if !viewer.Authenticated {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !viewer.Admin {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", viewer.UserID,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
