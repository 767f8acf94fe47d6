// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the audit event logging layer.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/lunareve/lunar-go/internal/geoip"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
)

// EventService writes audit events enriched with request metadata.
type EventService struct {
	queries *store.Queries
	geo     *geoip.Lookup
	logger  *slog.Logger
}

// NewEventService creates an EventService. geo may be a disabled lookup.
func NewEventService(db *sql.DB, geo *geoip.Lookup, logger *slog.Logger) *EventService {
	return &EventService{
		queries: store.New(db),
		geo:     geo,
		logger:  logger,
	}
}

// RequestMeta builds metadata for an event from request headers: parsed user
// agent fields plus a GeoIP country code when available.
func (s *EventService) RequestMeta(ip, userAgentHeader string) map[string]any {
	meta := map[string]any{}

	if userAgentHeader != "" {
		ua := useragent.Parse(userAgentHeader)
		browser := ua.Name
		if browser == "" {
			browser = "Unknown"
		}
		os := ua.OS
		if os == "" {
			os = "Unknown"
		}
		meta["browser"] = browser
		meta["os"] = os
		switch {
		case ua.Mobile:
			meta["device"] = "mobile"
		case ua.Tablet:
			meta["device"] = "tablet"
		case ua.Bot:
			meta["device"] = "bot"
		default:
			meta["device"] = "desktop"
		}
	}

	if country := s.geo.Country(ip); country != "" {
		meta["country"] = country
	}

	return meta
}

// Log creates an event log entry. Failures are logged but not returned: an
// audit write must never fail the operation it describes.
func (s *EventService) Log(ctx context.Context, level, category, message string, userID *int64, ip string, metadata map[string]any) {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IPAddress: ip,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to write audit event", "error", err, "message", message)
	}
}

// LogAuth logs an authentication event.
func (s *EventService) LogAuth(ctx context.Context, level, message string, userID *int64, ip string, metadata map[string]any) {
	s.Log(ctx, level, model.EventCategoryAuth, message, userID, ip, metadata)
}

// LogPost logs a publishing event.
func (s *EventService) LogPost(ctx context.Context, level, message string, userID *int64, ip string, metadata map[string]any) {
	s.Log(ctx, level, model.EventCategoryPost, message, userID, ip, metadata)
}

// LogComment logs a moderation event.
func (s *EventService) LogComment(ctx context.Context, level, message string, userID *int64, ip string, metadata map[string]any) {
	s.Log(ctx, level, model.EventCategoryComment, message, userID, ip, metadata)
}

// LogContact logs a contact form event.
func (s *EventService) LogContact(ctx context.Context, level, message string, ip string, metadata map[string]any) {
	s.Log(ctx, level, model.EventCategoryContact, message, nil, ip, metadata)
}

// LogSystem logs a system event.
func (s *EventService) LogSystem(ctx context.Context, level, message string, metadata map[string]any) {
	s.Log(ctx, level, model.EventCategorySystem, message, nil, "", metadata)
}

// DeleteOldEvents removes events older than the retention window and returns
// how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-retention))
}
