// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publish implements the publishing pipeline: it turns author input
// into a uniquely addressable persisted post with derived slug, excerpt, and
// reading time.
package publish

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/imaging"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/storage"
	"github.com/lunareve/lunar-go/internal/store"
	"github.com/lunareve/lunar-go/internal/util"
)

// ImageUpload is an optional image payload accompanying a save.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// SaveInput carries the author-supplied fields for a create or update.
// ID zero means create. Slug, when set on create, overrides derivation.
type SaveInput struct {
	ID       int64
	Title    string
	Body     string
	Category string
	Status   string
	Slug     string
	Image    *ImageUpload
}

// Service runs the publishing pipeline against the data store and object
// storage collaborators.
type Service struct {
	queries   *store.Queries
	objects   storage.ObjectStore
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewService creates a publishing service.
func NewService(queries *store.Queries, objects storage.ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		queries:   queries,
		objects:   objects,
		processor: imaging.NewProcessor(),
		logger:    logger,
	}
}

// Save persists a post. Without an ID it derives the slug, rejects the save
// if the slug is taken, derives excerpt and reading time, and inserts a new
// record owned by the viewer. With an ID it recomputes the derived fields
// from the submitted body and updates the existing record, leaving the slug
// untouched.
func (s *Service) Save(ctx context.Context, viewer model.Viewer, input SaveInput) (store.Post, error) {
	if !viewer.Authenticated {
		return store.Post{}, apperr.Authorization("you must be logged in to publish")
	}
	if err := s.validate(input); err != nil {
		return store.Post{}, err
	}

	imageURL := ""
	if input.Image != nil {
		url, err := s.storeImage(ctx, input.Image)
		if err != nil {
			// No partial post with a dangling image reference
			return store.Post{}, err
		}
		imageURL = url
	}

	if input.ID == 0 {
		return s.create(ctx, viewer, input, imageURL)
	}
	return s.update(ctx, input, imageURL)
}

// CheckSlugAvailable reports whether no post currently uses the slug. It is
// a best-effort fast-fail: the UNIQUE index on posts.slug is the
// authoritative guard against concurrent publishes.
func (s *Service) CheckSlugAvailable(ctx context.Context, slug string) (bool, error) {
	exists, err := s.queries.SlugExists(ctx, slug)
	if err != nil {
		return false, apperr.Backend(err, "could not check slug availability")
	}
	return !exists, nil
}

func (s *Service) validate(input SaveInput) error {
	if input.Title == "" {
		return apperr.Validation("title must not be empty")
	}
	if input.Body == "" {
		return apperr.Validation("body must not be empty")
	}
	if !model.IsValidCategory(input.Category) {
		return apperr.Validation("unknown category %q", input.Category)
	}
	if !model.IsValidPostStatus(input.Status) {
		return apperr.Validation("unknown status %q", input.Status)
	}
	return nil
}

func (s *Service) create(ctx context.Context, viewer model.Viewer, input SaveInput, imageURL string) (store.Post, error) {
	slug := input.Slug
	if slug == "" {
		slug = util.Slugify(input.Title)
	}
	if !util.IsValidSlug(slug) {
		return store.Post{}, apperr.Validation("title %q yields no usable slug", input.Title)
	}

	available, err := s.CheckSlugAvailable(ctx, slug)
	if err != nil {
		return store.Post{}, err
	}
	if !available {
		return store.Post{}, apperr.Conflict("slug %q already exists", slug)
	}

	now := time.Now()
	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:     input.Title,
		Slug:      slug,
		Body:      input.Body,
		Category:  input.Category,
		Excerpt:   DeriveExcerpt(input.Body),
		ReadTime:  EstimateReadingTime(input.Body),
		ImageURL:  imageURL,
		Status:    input.Status,
		AuthorID:  viewer.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// The check above raced with a concurrent publish; the UNIQUE
		// index settles it.
		if store.IsUniqueViolation(err) {
			return store.Post{}, apperr.Conflict("slug %q already exists", slug)
		}
		return store.Post{}, apperr.Backend(err, "could not create post")
	}

	s.logger.Info("post created", "id", post.ID, "slug", post.Slug, "author_id", post.AuthorID)
	return post, nil
}

func (s *Service) update(ctx context.Context, input SaveInput, imageURL string) (store.Post, error) {
	existing, err := s.queries.GetPostByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, apperr.NotFound("post %d not found", input.ID)
		}
		return store.Post{}, apperr.Backend(err, "could not load post")
	}

	if imageURL == "" {
		imageURL = existing.ImageURL
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:        existing.ID,
		Title:     input.Title,
		Body:      input.Body,
		Category:  input.Category,
		Excerpt:   DeriveExcerpt(input.Body),
		ReadTime:  EstimateReadingTime(input.Body),
		ImageURL:  imageURL,
		Status:    input.Status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return store.Post{}, apperr.Backend(err, "could not update post")
	}

	s.logger.Info("post updated", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// storeImage normalizes the upload and hands it to object storage, returning
// the public URL.
func (s *Service) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	res, err := s.processor.Process(bytes.NewReader(img.Data))
	if err != nil {
		return "", apperr.Validation("unusable image: %v", err)
	}

	path := fmt.Sprintf("posts/%s%s", uuid.New().String(), res.Ext)
	url, err := s.objects.Put(ctx, path, res.Data, res.MimeType)
	if err != nil {
		return "", apperr.Storage(err, "could not store post image")
	}
	return url, nil
}
