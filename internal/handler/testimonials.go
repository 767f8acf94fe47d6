// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/store"
)

// TestimonialHandler serves client testimonials.
type TestimonialHandler struct {
	queries *store.Queries
}

// NewTestimonialHandler creates a TestimonialHandler.
func NewTestimonialHandler(db *sql.DB) *TestimonialHandler {
	return &TestimonialHandler{queries: store.New(db)}
}

type testimonialInput struct {
	Name      string `json:"name"`
	Quote     string `json:"quote"`
	Rating    int64  `json:"rating"`
	AvatarURL string `json:"avatar_url"`
}

func (in testimonialInput) validate() error {
	if in.Name == "" {
		return apperr.Validation("name must not be empty")
	}
	if in.Quote == "" {
		return apperr.Validation("quote must not be empty")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}
	return nil
}

// List serves all testimonials, newest first.
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.queries.ListTestimonials(r.Context())
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list testimonials"))
		return
	}
	if testimonials == nil {
		testimonials = []store.Testimonial{}
	}
	writeJSON(w, http.StatusOK, testimonials)
}

// Create handles POST /admin/testimonials.
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in testimonialInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	now := time.Now()
	testimonial, err := h.queries.CreateTestimonial(r.Context(), store.CreateTestimonialParams{
		Name:      in.Name,
		Quote:     in.Quote,
		Rating:    in.Rating,
		AvatarURL: in.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not create testimonial"))
		return
	}
	writeJSON(w, http.StatusCreated, testimonial)
}

// Update handles PUT /admin/testimonials/{id}.
func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid testimonial id"))
		return
	}

	var in testimonialInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	if _, err := h.queries.GetTestimonialByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("testimonial %d not found", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not load testimonial"))
		return
	}

	testimonial, err := h.queries.UpdateTestimonial(r.Context(), store.UpdateTestimonialParams{
		ID:        id,
		Name:      in.Name,
		Quote:     in.Quote,
		Rating:    in.Rating,
		AvatarURL: in.AvatarURL,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not update testimonial"))
		return
	}
	writeJSON(w, http.StatusOK, testimonial)
}

// Delete handles DELETE /admin/testimonials/{id}.
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid testimonial id"))
		return
	}

	if err := h.queries.DeleteTestimonial(r.Context(), id); err != nil {
		writeAppError(w, apperr.Backend(err, "could not delete testimonial"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
