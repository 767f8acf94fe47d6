// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const postColumns = `id, title, slug, body, category, excerpt, read_time, image_url, status, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Category, &p.Excerpt,
		&p.ReadTime, &p.ImageURL, &p.Status, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams holds the fields for a new post record.
type CreatePostParams struct {
	Title     string
	Slug      string
	Body      string
	Category  string
	Excerpt   string
	ReadTime  string
	ImageURL  string
	Status    string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePost inserts a new post and returns the stored record.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, body, category, excerpt, read_time, image_url, status, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Body, arg.Category, arg.Excerpt, arg.ReadTime,
		arg.ImageURL, arg.Status, arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

// UpdatePostParams holds the fields for updating an existing post.
// The slug is deliberately absent: it is never rewritten on edit.
type UpdatePostParams struct {
	ID        int64
	Title     string
	Body      string
	Category  string
	Excerpt   string
	ReadTime  string
	ImageURL  string
	Status    string
	UpdatedAt time.Time
}

// UpdatePost updates an existing post and returns the stored record.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts
		SET title = ?, body = ?, category = ?, excerpt = ?, read_time = ?, image_url = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Body, arg.Category, arg.Excerpt, arg.ReadTime,
		arg.ImageURL, arg.Status, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

// GetPostByID fetches a post by its identifier.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostBySlug fetches a post by its slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// SlugExists reports whether any post already uses the given slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ?`, slug).Scan(&n)
	return n > 0, err
}

// ListPostsParams holds pagination parameters for listing posts.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns posts ordered newest first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPostsByStatusParams holds filter and pagination parameters.
type ListPostsByStatusParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListPostsByStatus returns posts with the given status, newest first.
func (q *Queries) ListPostsByStatus(ctx context.Context, arg ListPostsByStatusParams) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// CountPostsByStatus returns the number of posts with the given status.
func (q *Queries) CountPostsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE status = ?`, status).Scan(&n)
	return n, err
}

// DeletePost removes a post. Comments are cascade deleted by FK constraint.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}
