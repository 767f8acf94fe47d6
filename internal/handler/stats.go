// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	queries *store.Queries
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{queries: store.New(db)}
}

type postStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
}

type commentStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

type siteStats struct {
	Posts        postStats    `json:"posts"`
	Comments     commentStats `json:"comments"`
	Users        int64        `json:"users"`
	Testimonials int64        `json:"testimonials"`
}

// Overview handles GET /admin/stats.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var stats siteStats
	var err error

	if stats.Posts.Total, err = h.queries.CountPosts(ctx); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Posts.Published, err = h.queries.CountPostsByStatus(ctx, model.PostStatusPublished); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Posts.Draft, err = h.queries.CountPostsByStatus(ctx, model.PostStatusDraft); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Comments.Total, err = h.queries.CountComments(ctx); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Comments.Pending, err = h.queries.CountPendingComments(ctx); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Users, err = h.queries.CountUsers(ctx); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}
	if stats.Testimonials, err = h.queries.CountTestimonials(ctx); err != nil {
		writeAppError(w, apperr.Backend(err, "could not load stats"))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
