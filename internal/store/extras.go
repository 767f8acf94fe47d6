// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Testimonials

const testimonialColumns = `id, name, quote, rating, avatar_url, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Quote, &t.Rating, &t.AvatarURL, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTestimonialParams holds the fields for a new testimonial.
type CreateTestimonialParams struct {
	Name      string
	Quote     string
	Rating    int64
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTestimonial inserts a new testimonial and returns the stored record.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (name, quote, rating, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+testimonialColumns,
		arg.Name, arg.Quote, arg.Rating, arg.AvatarURL, arg.CreatedAt, arg.UpdatedAt)
	return scanTestimonial(row)
}

// UpdateTestimonialParams holds the fields for updating a testimonial.
type UpdateTestimonialParams struct {
	ID        int64
	Name      string
	Quote     string
	Rating    int64
	AvatarURL string
	UpdatedAt time.Time
}

// UpdateTestimonial updates an existing testimonial and returns the stored record.
func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE testimonials
		SET name = ?, quote = ?, rating = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+testimonialColumns,
		arg.Name, arg.Quote, arg.Rating, arg.AvatarURL, arg.UpdatedAt, arg.ID)
	return scanTestimonial(row)
}

// GetTestimonialByID fetches a testimonial by identifier.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	return scanTestimonial(row)
}

// ListTestimonials returns all testimonials, newest first.
func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+testimonialColumns+` FROM testimonials
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTestimonial removes a testimonial.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	return err
}

// CountTestimonials returns the total number of testimonials.
func (q *Queries) CountTestimonials(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM testimonials`).Scan(&n)
	return n, err
}

// Services

const serviceColumns = `id, title, description, price, duration, icon, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Price, &s.Duration, &s.Icon, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateServiceParams holds the fields for a new service offering.
type CreateServiceParams struct {
	Title       string
	Description string
	Price       string
	Duration    string
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateService inserts a new service and returns the stored record.
func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO services (title, description, price, duration, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+serviceColumns,
		arg.Title, arg.Description, arg.Price, arg.Duration, arg.Icon, arg.CreatedAt, arg.UpdatedAt)
	return scanService(row)
}

// UpdateServiceParams holds the fields for updating a service offering.
type UpdateServiceParams struct {
	ID          int64
	Title       string
	Description string
	Price       string
	Duration    string
	Icon        string
	UpdatedAt   time.Time
}

// UpdateService updates an existing service and returns the stored record.
func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE services
		SET title = ?, description = ?, price = ?, duration = ?, icon = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+serviceColumns,
		arg.Title, arg.Description, arg.Price, arg.Duration, arg.Icon, arg.UpdatedAt, arg.ID)
	return scanService(row)
}

// GetServiceByID fetches a service by identifier.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (Service, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	return scanService(row)
}

// ListServices returns all services, oldest first.
func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+serviceColumns+` FROM services
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteService removes a service.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	return err
}

// Contact messages

const messageColumns = `id, name, email, body, created_at`

// CreateMessageParams holds the fields for a new contact message.
type CreateMessageParams struct {
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
}

// CreateMessage inserts a new contact message and returns the stored record.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO messages (name, email, body, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+messageColumns,
		arg.Name, arg.Email, arg.Body, arg.CreatedAt)

	var m Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt)
	return m, err
}

// ListMessages returns all contact messages, newest first.
func (q *Queries) ListMessages(ctx context.Context) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMessage removes a contact message.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	return err
}
