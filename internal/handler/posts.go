// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/cache"
	"github.com/lunareve/lunar-go/internal/imaging"
	"github.com/lunareve/lunar-go/internal/markdown"
	"github.com/lunareve/lunar-go/internal/middleware"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/publish"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/store"
)

// maxImageBytes bounds post image uploads.
const maxImageBytes = 10 << 20

// publishedListCacheKey caches the default published listing.
const publishedListCacheKey = "posts:published"

// PostHandler serves the public blog listing and the admin publishing API.
type PostHandler struct {
	queries   *store.Queries
	publisher *publish.Service
	cache     cache.Cache
	events    *service.EventService
	logger    *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(db *sql.DB, publisher *publish.Service, c cache.Cache, events *service.EventService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		queries:   store.New(db),
		publisher: publisher,
		cache:     c,
		events:    events,
		logger:    logger,
	}
}

// postView is a post plus the rendered HTML body.
type postView struct {
	store.Post
	HTML string `json:"html"`
}

// List serves published posts, newest first. The default page is cached.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)

	cacheable := limit == 20 && offset == 0
	if cacheable {
		if data, err := h.cache.Get(r.Context(), publishedListCacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	posts, err := h.queries.ListPostsByStatus(r.Context(), store.ListPostsByStatusParams{
		Status: model.PostStatusPublished,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list posts"))
		return
	}
	if posts == nil {
		posts = []store.Post{}
	}

	if cacheable {
		if data, err := encodeForCache(posts); err == nil {
			_ = h.cache.Set(r.Context(), publishedListCacheKey, data, 0)
		}
	}

	writeJSON(w, http.StatusOK, posts)
}

// Get serves a single post by slug with its body rendered to HTML. Drafts
// are only visible to admins.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("post %q not found", slug))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not load post"))
		return
	}

	viewer := middleware.GetViewer(r)
	if post.Status != model.PostStatusPublished && !viewer.Admin {
		writeAppError(w, apperr.NotFound("post %q not found", slug))
		return
	}

	html, err := markdown.Render(post.Body)
	if err != nil {
		h.logger.Error("failed to render post body", "slug", slug, "error", err)
		html = ""
	}

	writeJSON(w, http.StatusOK, postView{Post: post, HTML: html})
}

// AdminList serves all posts regardless of status.
func (h *PostHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	posts, err := h.queries.ListPosts(r.Context(), store.ListPostsParams{Limit: limit, Offset: offset})
	if err != nil {
		writeAppError(w, apperr.Backend(err, "could not list posts"))
		return
	}
	if posts == nil {
		posts = []store.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Create handles POST /admin/posts: a new post, optionally with an image.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0)
}

// Update handles PUT /admin/posts/{id}: an edit of an existing post.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid post id"))
		return
	}
	h.save(w, r, id)
}

func (h *PostHandler) save(w http.ResponseWriter, r *http.Request, id int64) {
	input, err := h.parseSaveInput(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	input.ID = id

	viewer := middleware.GetViewer(r)
	post, err := h.publisher.Save(r.Context(), viewer, input)
	if err != nil {
		writeAppError(w, err)
		return
	}

	_ = h.cache.Delete(r.Context(), publishedListCacheKey)

	action := "post created"
	status := http.StatusCreated
	if id != 0 {
		action = "post updated"
		status = http.StatusOK
	}
	h.events.LogPost(r.Context(), model.EventLevelInfo, action, &viewer.UserID, clientAddr(r),
		map[string]any{"post_id": post.ID, "slug": post.Slug})

	writeJSON(w, status, post)
}

// parseSaveInput accepts either a JSON body or a multipart form with an
// optional "image" file.
func (h *PostHandler) parseSaveInput(r *http.Request) (publish.SaveInput, error) {
	var input publish.SaveInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			return input, apperr.Validation("invalid multipart form")
		}
		input.Title = r.FormValue("title")
		input.Body = r.FormValue("body")
		input.Category = r.FormValue("category")
		input.Status = r.FormValue("status")
		input.Slug = r.FormValue("slug")

		file, header, err := r.FormFile("image")
		if err == nil {
			defer func() { _ = file.Close() }()
			data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
			if err != nil {
				return input, apperr.Validation("could not read image upload")
			}
			if !imaging.IsImage(imaging.DetectMimeType(data)) {
				return input, apperr.Validation("upload %q is not a supported image", header.Filename)
			}
			input.Image = &publish.ImageUpload{Filename: header.Filename, Data: data}
		}
		return input, nil
	}

	var body struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Category string `json:"category"`
		Status   string `json:"status"`
		Slug     string `json:"slug"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return input, err
	}
	input.Title = body.Title
	input.Body = body.Body
	input.Category = body.Category
	input.Status = body.Status
	input.Slug = body.Slug
	return input, nil
}

// Delete handles DELETE /admin/posts/{id}. Comments cascade away with the
// post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAppError(w, apperr.Validation("invalid post id"))
		return
	}

	if _, err := h.queries.GetPostByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAppError(w, apperr.NotFound("post %d not found", id))
			return
		}
		writeAppError(w, apperr.Backend(err, "could not load post"))
		return
	}

	if err := h.queries.DeletePost(r.Context(), id); err != nil {
		writeAppError(w, apperr.Backend(err, "could not delete post"))
		return
	}

	_ = h.cache.Delete(r.Context(), publishedListCacheKey)

	viewer := middleware.GetViewer(r)
	h.events.LogPost(r.Context(), model.EventLevelInfo, "post deleted", &viewer.UserID, clientAddr(r),
		map[string]any{"post_id": id})

	w.WriteHeader(http.StatusNoContent)
}

// pagination extracts limit/offset query parameters with bounds.
func pagination(r *http.Request, defaultLimit int64) (limit, offset int64) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// encodeForCache marshals a listing the same way writeJSON would.
func encodeForCache(v any) ([]byte, error) {
	return json.Marshal(v)
}

// clientAddr returns the client address for audit logging.
func clientAddr(r *http.Request) string {
	return r.RemoteAddr
}
