// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsValidRole checks if a role belongs to the fixed set.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Viewer describes who is looking at a page for the duration of one request.
// It is never persisted and never cached beyond a single request; every
// publishing and moderation call receives it explicitly instead of reading
// ambient session state.
type Viewer struct {
	Authenticated bool
	Admin         bool
	UserID        int64
	Name          string
}

// Anonymous is the viewer for requests with no authenticated session.
var Anonymous = Viewer{}

// NewViewer builds an authenticated viewer from a stored user record.
func NewViewer(userID int64, name, role string) Viewer {
	return Viewer{
		Authenticated: true,
		Admin:         role == RoleAdmin,
		UserID:        userID,
		Name:          name,
	}
}
