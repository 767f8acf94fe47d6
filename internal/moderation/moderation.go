// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package moderation implements the comment moderation engine: gated
// submission, admin approval and removal, and per-viewer visibility.
package moderation

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
)

// AnonymousAuthor is the author name recorded when no display name is
// available. Submission is gated on authentication, so in practice this is
// only reachable for accounts without a name set.
const AnonymousAuthor = "Anonymous"

// Engine runs comment moderation against the data store.
type Engine struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEngine creates a moderation engine.
func NewEngine(queries *store.Queries, logger *slog.Logger) *Engine {
	return &Engine{queries: queries, logger: logger}
}

// Submit creates an unapproved comment on a post. Unauthenticated viewers
// are rejected before any write.
func (e *Engine) Submit(ctx context.Context, viewer model.Viewer, postID int64, body string) (store.Comment, error) {
	if !viewer.Authenticated {
		return store.Comment{}, apperr.Authorization("you must be logged in to comment")
	}
	if body == "" {
		return store.Comment{}, apperr.Validation("comment must not be empty")
	}

	if _, err := e.queries.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Comment{}, apperr.NotFound("post %d not found", postID)
		}
		return store.Comment{}, apperr.Backend(err, "could not load post")
	}

	author := viewer.Name
	if author == "" {
		author = AnonymousAuthor
	}

	comment, err := e.queries.CreateComment(ctx, store.CreateCommentParams{
		PostID:    postID,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return store.Comment{}, apperr.Backend(err, "could not save comment")
	}

	e.logger.Info("comment submitted", "id", comment.ID, "post_id", postID, "author", author)
	return comment, nil
}

// Approve flips a comment's approval flag. Restricted to admins. Approving
// an already-approved comment succeeds without further effect.
func (e *Engine) Approve(ctx context.Context, viewer model.Viewer, commentID int64) (store.Comment, error) {
	if !viewer.Admin {
		return store.Comment{}, apperr.Authorization("only admins can approve comments")
	}

	comment, err := e.queries.ApproveComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Comment{}, apperr.NotFound("comment %d not found", commentID)
		}
		return store.Comment{}, apperr.Backend(err, "could not approve comment")
	}

	e.logger.Info("comment approved", "id", comment.ID, "post_id", comment.PostID)
	return comment, nil
}

// Remove deletes a comment permanently. Restricted to admins.
func (e *Engine) Remove(ctx context.Context, viewer model.Viewer, commentID int64) error {
	if !viewer.Admin {
		return apperr.Authorization("only admins can remove comments")
	}

	if _, err := e.queries.GetCommentByID(ctx, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("comment %d not found", commentID)
		}
		return apperr.Backend(err, "could not load comment")
	}

	if err := e.queries.DeleteComment(ctx, commentID); err != nil {
		return apperr.Backend(err, "could not remove comment")
	}

	e.logger.Info("comment removed", "id", commentID)
	return nil
}

// ListVisible fetches a post's comments in chronological order and filters
// them down to what the viewer may see.
func (e *Engine) ListVisible(ctx context.Context, viewer model.Viewer, postID int64) ([]store.Comment, error) {
	comments, err := e.queries.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Backend(err, "could not load comments")
	}
	return VisibleTo(comments, viewer), nil
}

// VisibleTo filters comments down to those the viewer may see: approved
// comments, everything for admins, and the viewer's own comments matched by
// display name. Input order is preserved.
func VisibleTo(comments []store.Comment, viewer model.Viewer) []store.Comment {
	visible := make([]store.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Approved || viewer.Admin || c.Author == viewer.Name {
			visible = append(visible, c)
		}
	}
	return visible
}
