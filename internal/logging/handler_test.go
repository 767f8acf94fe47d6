package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
	"github.com/lunareve/lunar-go/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestEventLogHandlerWritesErrors(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Error("database connection failed", "host", "localhost")

	q := store.New(db)
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("level = %q, want %q", events[0].Level, model.EventLevelError)
	}
	if events[0].Message != "database connection failed" {
		t.Errorf("message = %q", events[0].Message)
	}
}

func TestEventLogHandlerSkipsInfo(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Info("routine startup")

	q := store.New(db)
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("event count = %d, want 0 (info not mirrored)", len(events))
	}
}

func TestEventLogHandlerCategoryAttr(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Warn("suspicious request", "category", model.EventCategoryAuth, "ip", "10.0.0.1")

	q := store.New(db)
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryAuth {
		t.Errorf("category = %q, want %q", events[0].Category, model.EventCategoryAuth)
	}
	if events[0].Level != model.EventLevelWarning {
		t.Errorf("level = %q, want %q", events[0].Level, model.EventLevelWarning)
	}
}

func TestExtractCategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login failed", model.EventCategoryAuth},
		{"post created", model.EventCategoryPost},
		{"comment approved", model.EventCategoryComment},
		{"contact form spam detected", model.EventCategoryContact},
		{"disk almost full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := slog.Record{Message: tt.message}
			if got := extractCategory(r); got != tt.want {
				t.Errorf("extractCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
