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

// ServiceHandler serves the consultation service catalog.
type ServiceHandler struct {
	queries *store.Queries
}

// NewServiceHandler creates a ServiceHandler.
func NewServiceHandler(db *sql.DB) *ServiceHandler {
	return &ServiceHandler{queries: store.New(db)}
}

type serviceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
	Icon        string `json:"icon"`
}

func (in serviceInput) validate() error {
	if in.Title == "" {
		return apperr.Validation("title must not be empty")
	}
	if in.Description == "" {
		return apperr.Validation("description must not be empty")
	}
	return nil
}

// List serves all services in catalog order.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListServices(r.Context())
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list services"))
		return
	}
	if services == nil {
		services = []store.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

// Create handles POST /admin/services.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in serviceInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	now := time.Now()
	svc, err := h.queries.CreateService(r.Context(), store.CreateServiceParams{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Icon:        in.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not create service"))
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// Update handles PUT /admin/services/{id}.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid service id"))
		return
	}

	var in serviceInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if err := in.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	if _, err := h.queries.GetServiceByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("service %d not found", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not load service"))
		return
	}

	svc, err := h.queries.UpdateService(r.Context(), store.UpdateServiceParams{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Icon:        in.Icon,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not update service"))
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Delete handles DELETE /admin/services/{id}.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid service id"))
		return
	}

	if err := h.queries.DeleteService(r.Context(), id); err != nil {
		writeAppError(w, apperr.Backend(err, "could not delete service"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
