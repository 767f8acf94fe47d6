// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a stored account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Post is a stored blog post. Excerpt and ReadTime are derived from Body at
// save time and are never edited independently.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Excerpt   string    `json:"excerpt"`
	ReadTime  string    `json:"read_time"`
	ImageURL  string    `json:"image_url"`
	Status    string    `json:"status"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a stored reader comment. Approved starts false and is only ever
// flipped true by an admin.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentWithPostTitle is a comment joined with the title of its post,
// used by the admin moderation queue.
type CommentWithPostTitle struct {
	Comment
	PostTitle string `json:"post_title"`
}

// Testimonial is a stored client testimonial.
type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quote     string    `json:"quote"`
	Rating    int64     `json:"rating"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service is a stored service offering.
type Service struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Duration    string    `json:"duration"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is a stored contact form submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a stored audit log entry.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	IPAddress string        `json:"ip_address"`
	CreatedAt time.Time     `json:"created_at"`
}
