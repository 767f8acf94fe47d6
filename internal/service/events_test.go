// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lunareve/lunar-go/internal/geoip"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
	"github.com/lunareve/lunar-go/internal/testutil"
)

func testEventService(t *testing.T) (*EventService, *store.Queries, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	geo, err := geoip.NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	return NewEventService(db, geo, testutil.TestLogger()), store.New(db), cleanup
}

func TestLogWritesEvent(t *testing.T) {
	svc, q, cleanup := testEventService(t)
	defer cleanup()
	ctx := context.Background()

	userID := int64(42)
	svc.LogAuth(ctx, model.EventLevelInfo, "user logged in", &userID, "127.0.0.1", map[string]any{"email": "a@b.c"})

	events, err := q.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}

	e := events[0]
	if e.Category != model.EventCategoryAuth {
		t.Errorf("category = %q, want %q", e.Category, model.EventCategoryAuth)
	}
	if !e.UserID.Valid || e.UserID.Int64 != 42 {
		t.Errorf("user_id = %+v, want 42", e.UserID)
	}
	if !strings.Contains(e.Metadata, `"email":"a@b.c"`) {
		t.Errorf("metadata = %q, want email field", e.Metadata)
	}
	if e.IPAddress != "127.0.0.1" {
		t.Errorf("ip = %q, want 127.0.0.1", e.IPAddress)
	}
}

func TestRequestMeta(t *testing.T) {
	svc, _, cleanup := testEventService(t)
	defer cleanup()

	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	meta := svc.RequestMeta("192.168.1.10", chromeUA)
	if meta["browser"] != "Chrome" {
		t.Errorf("browser = %v, want Chrome", meta["browser"])
	}
	if meta["device"] != "desktop" {
		t.Errorf("device = %v, want desktop", meta["device"])
	}
	if meta["country"] != "LOCAL" {
		t.Errorf("country = %v, want LOCAL for private IP", meta["country"])
	}

	empty := svc.RequestMeta("", "")
	if len(empty) != 0 {
		t.Errorf("empty input meta = %v, want empty map", empty)
	}
}

func TestDeleteOldEvents(t *testing.T) {
	svc, q, cleanup := testEventService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "ancient",
		Metadata:  "{}",
		CreatedAt: time.Now().AddDate(0, 0, -100),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	svc.LogSystem(ctx, model.EventLevelInfo, "fresh", nil)

	deleted, err := svc.DeleteOldEvents(ctx, 90*24*time.Hour)
	if err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
