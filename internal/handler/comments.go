// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/middleware"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/moderation"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
)

// CommentHandler serves comment submission, per-viewer listing, and the
// admin moderation queue.
type CommentHandler struct {
	queries *store.Queries
	engine  *moderation.Engine
	events  *service.EventService
	logger  *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(db *sql.DB, engine *moderation.Engine, events *service.EventService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		queries: store.New(db),
		engine:  engine,
		events:  events,
		logger:  logger,
	}
}

// List serves the comments on a post that the current viewer may see.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		writeAppError(w, apperr.Validation("invalid post id"))
		return
	}

	viewer := middleware.GetViewer(r)
	comments, err := h.engine.ListVisible(r.Context(), viewer, postID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Submit handles POST /api/v1/posts/{postID}/comments.
func (h *CommentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		writeAppError(w, apperr.Validation("invalid post id"))
		return
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(w, err)
		return
	}

	viewer := middleware.GetViewer(r)
	comment, err := h.engine.Submit(r.Context(), viewer, postID, body.Body)
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.events.LogComment(r.Context(), model.EventLevelInfo, "comment submitted", &viewer.UserID, clientAddr(r),
		map[string]any{"comment_id": comment.ID, "post_id": postID})

	writeJSON(w, http.StatusCreated, comment)
}

// Queue serves the admin moderation queue: every comment joined with its
// post title, newest first.
func (h *CommentHandler) Queue(w http.ResponseWriter, r *http.Request) {
	comments, err := h.queries.ListCommentsWithPostTitles(r.Context())
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not load moderation queue"))
		return
	}
	if comments == nil {
		comments = []store.CommentWithPostTitle{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Approve handles POST /admin/comments/{id}/approve.
func (h *CommentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid comment id"))
		return
	}

	viewer := middleware.GetViewer(r)
	comment, err := h.engine.Approve(r.Context(), viewer, id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.events.LogComment(r.Context(), model.EventLevelInfo, "comment approved", &viewer.UserID, clientAddr(r),
		map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})

	writeJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /admin/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid comment id"))
		return
	}

	viewer := middleware.GetViewer(r)
	if err := h.engine.Remove(r.Context(), viewer, id); err != nil {
		writeAppError(w, err)
		return
	}

	h.events.LogComment(r.Context(), model.EventLevelInfo, "comment removed", &viewer.UserID, clientAddr(r),
		map[string]any{"comment_id": id})

	w.WriteHeader(http.StatusNoContent)
}
