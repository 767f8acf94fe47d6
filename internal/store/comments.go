// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const commentColumns = `id, post_id, author, body, approved, created_at`

func scanComment(row interface{ Scan(...any) error }) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.Author, &c.Body, &c.Approved, &c.CreatedAt)
	return c, err
}

// CreateCommentParams holds the fields for a new comment record.
type CreateCommentParams struct {
	PostID    int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// CreateComment inserts a new unapproved comment and returns the stored record.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author, body, approved, created_at)
		VALUES (?, ?, ?, 0, ?)
		RETURNING `+commentColumns,
		arg.PostID, arg.Author, arg.Body, arg.CreatedAt)
	return scanComment(row)
}

// GetCommentByID fetches a comment by its identifier.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	return scanComment(row)
}

// ListCommentsByPost returns all comments for a post, oldest first.
func (q *Queries) ListCommentsByPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = ?
		ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListCommentsWithPostTitles returns all comments joined with their post
// titles, newest first. Used by the admin moderation queue.
func (q *Queries) ListCommentsWithPostTitles(ctx context.Context) ([]CommentWithPostTitle, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.author, c.body, c.approved, c.created_at, p.title
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []CommentWithPostTitle
	for rows.Next() {
		var c CommentWithPostTitle
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Body, &c.Approved, &c.CreatedAt, &c.PostTitle); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ApproveComment sets the approval flag and returns the stored record.
// Approving an already-approved comment is a no-op.
func (q *Queries) ApproveComment(ctx context.Context, id int64) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE comments SET approved = 1 WHERE id = ?
		RETURNING `+commentColumns, id)
	return scanComment(row)
}

// DeleteComment removes a comment permanently.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return err
}

// CountComments returns the total number of comments.
func (q *Queries) CountComments(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&n)
	return n, err
}

// CountPendingComments returns the number of comments awaiting approval.
func (q *Queries) CountPendingComments(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE approved = 0`).Scan(&n)
	return n, err
}
