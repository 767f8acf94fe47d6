// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lunareve/lunar-go/internal/model"
)

func requestWithViewer(viewer model.Viewer) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	ctx := context.WithValue(r.Context(), ContextKeyViewer, viewer)
	return r.WithContext(ctx)
}

func TestGetViewerDefaultsToAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	viewer := GetViewer(r)
	if viewer.Authenticated {
		t.Error("expected anonymous viewer")
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth()(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithViewer(model.NewViewer(1, "Sam", model.RoleUser)))
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin()(next)

	tests := []struct {
		name   string
		viewer model.Viewer
		want   int
	}{
		{"anonymous", model.Anonymous, http.StatusUnauthorized},
		{"regular user", model.NewViewer(1, "Sam", model.RoleUser), http.StatusForbidden},
		{"admin", model.NewViewer(2, "Root", model.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if tt.viewer == model.Anonymous {
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			} else {
				handler.ServeHTTP(rec, requestWithViewer(tt.viewer))
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitByIP(1, 2)(next)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		r.RemoteAddr = "203.0.113.5:1234"
		handler.ServeHTTP(rec, r)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests = %v, want first two 200", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}

	// A different IP gets its own limiter
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
	r.RemoteAddr = "203.0.113.6:1234"
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP status = %d, want 200", rec.Code)
	}
}
