// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/lunareve/lunar-go/internal/geoip"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
	"github.com/lunareve/lunar-go/internal/testutil"
)

func TestPurgeOldEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)

	geo, err := geoip.NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	events := service.NewEventService(db, geo, testutil.TestLogger())
	s := New(events, 90, testutil.TestLogger())

	_, err = q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "stale",
		Metadata:  "{}",
		CreatedAt: time.Now().AddDate(0, 0, -120),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	_, err = q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "fresh",
		Metadata:  "{}",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	s.purgeOldEvents()

	remaining, err := q.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining events = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("surviving event = %q, want %q", remaining[0].Message, "fresh")
	}
}

func TestStartStop(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	geo, err := geoip.NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	events := service.NewEventService(db, geo, testutil.TestLogger())
	s := New(events, 90, testutil.TestLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
