// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lunareve/lunar-go/internal/service"
)

// Scheduler runs the event log retention purge on a daily schedule.
type Scheduler struct {
	events    *service.EventService
	cron      *cron.Cron
	retention time.Duration
	logger    *slog.Logger
}

// New creates a scheduler that keeps retentionDays of audit events.
func New(events *service.EventService, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		events:    events,
		cron:      cron.New(),
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Start registers the purge job (daily at 03:00) and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.purgeOldEvents)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) purgeOldEvents() {
	deleted, err := s.events.DeleteOldEvents(context.Background(), s.retention)
	if err != nil {
		s.logger.Error("failed to purge old events", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("purged old events", "count", deleted, "retention", s.retention)
	}
}
