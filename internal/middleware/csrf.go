// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// CSRF returns middleware that protects session-authenticated routes against
// cross-site request forgery. filippo.io/csrf/gorilla validates Fetch
// metadata headers rather than cookies. In development localhost origins are
// trusted for easier testing.
func CSRF(authKey []byte, isDev bool, serverAddr string) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}

	if isDev {
		opts = append(opts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"127.0.0.1:8080",
			serverAddr,
		}))
	}

	return csrf.Protect(authKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reasonStr := "unknown"
	if reason := csrf.FailureReason(r); reason != nil {
		reasonStr = reason.Error()
	}
	slog.Error("CSRF validation failed",
		"reason", reasonStr,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
	)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}
