// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/lunareve/lunar-go/internal/apperr"
	"github.com/lunareve/lunar-go/internal/model"
	"github.com/lunareve/lunar-go/internal/store"
	"github.com/lunareve/lunar-go/internal/testutil"
)

// fakeObjectStore records puts and can be told to fail.
type fakeObjectStore struct {
	fail bool
	puts []string
}

func (f *fakeObjectStore) Put(_ context.Context, path string, _ []byte, _ string) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	f.puts = append(f.puts, path)
	return "/uploads/" + path, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, _ string) error { return nil }

func testService(t *testing.T) (*Service, *store.Queries, *fakeObjectStore, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	objects := &fakeObjectStore{}
	queries := store.New(db)
	return NewService(queries, objects, testutil.TestLogger()), queries, objects, cleanup
}

func testViewer(t *testing.T, ctx context.Context, q *store.Queries) model.Viewer {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(ctx, store.CreateUserParams{
		Email:        "author@example.com",
		PasswordHash: "x",
		Name:         "Author",
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return model.NewViewer(user.ID, user.Name, user.Role)
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestSaveCreateDerivesFields(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	post, err := svc.Save(ctx, viewer, SaveInput{
		Title:    "Mercury Retrograde: What It Means!",
		Body:     "Line one.\nLine two.\nLine three.",
		Category: model.CategoryPlanetaryMovements,
		Status:   model.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if post.Slug != "mercury-retrograde-what-it-means" {
		t.Errorf("slug = %q, want %q", post.Slug, "mercury-retrograde-what-it-means")
	}
	if post.Excerpt != "Line one. Line two." {
		t.Errorf("excerpt = %q, want %q", post.Excerpt, "Line one. Line two.")
	}
	if post.ReadTime != "1 minute read" {
		t.Errorf("read time = %q, want %q", post.ReadTime, "1 minute read")
	}
	if post.AuthorID != viewer.UserID {
		t.Errorf("author_id = %d, want %d", post.AuthorID, viewer.UserID)
	}
}

func TestSaveDuplicateSlugConflicts(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	input := SaveInput{
		Title:    "Full Moon Rituals",
		Body:     "Body text.",
		Category: model.CategorySpiritualGrowth,
		Status:   model.PostStatusPublished,
	}
	if _, err := svc.Save(ctx, viewer, input); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	// Different title, same normalized slug
	input.Title = "Full   Moon Rituals!"
	_, err := svc.Save(ctx, viewer, input)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second Save err = %v, want conflict", err)
	}

	count, err := q.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if count != 1 {
		t.Errorf("post count = %d, want 1", count)
	}
}

func TestSaveRejectsUnauthenticated(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.Save(ctx, model.Anonymous, SaveInput{
		Title:    "Sneaky Post",
		Body:     "Body.",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusDraft,
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("err = %v, want authorization", err)
	}

	count, err := q.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if count != 0 {
		t.Errorf("post count = %d, want 0", count)
	}
}

func TestSaveValidation(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	tests := []struct {
		name  string
		input SaveInput
	}{
		{
			name:  "empty title",
			input: SaveInput{Body: "b", Category: model.CategoryLunarAstrology, Status: model.PostStatusDraft},
		},
		{
			name:  "empty body",
			input: SaveInput{Title: "t", Category: model.CategoryLunarAstrology, Status: model.PostStatusDraft},
		},
		{
			name:  "bad category",
			input: SaveInput{Title: "t", Body: "b", Category: "horoscopes", Status: model.PostStatusDraft},
		},
		{
			name:  "bad status",
			input: SaveInput{Title: "t", Body: "b", Category: model.CategoryLunarAstrology, Status: "archived"},
		},
		{
			name:  "title with no usable characters",
			input: SaveInput{Title: "!!!", Body: "b", Category: model.CategoryLunarAstrology, Status: model.PostStatusDraft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, viewer, tt.input)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

func TestSaveUpdateKeepsSlugAndRecomputes(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	post, err := svc.Save(ctx, viewer, SaveInput{
		Title:    "New Moon Intentions",
		Body:     "Old body.",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated, err := svc.Save(ctx, viewer, SaveInput{
		ID:       post.ID,
		Title:    "Completely Different Title",
		Body:     "Fresh first line.\nFresh second line.\nTail.",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("Save (update): %v", err)
	}

	if updated.Slug != "new-moon-intentions" {
		t.Errorf("slug = %q, want original %q", updated.Slug, "new-moon-intentions")
	}
	if updated.Excerpt != "Fresh first line. Fresh second line." {
		t.Errorf("excerpt = %q, want recomputed", updated.Excerpt)
	}
	if updated.Status != model.PostStatusPublished {
		t.Errorf("status = %q, want published", updated.Status)
	}
}

func TestSaveUpdateMissingPost(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	_, err := svc.Save(ctx, viewer, SaveInput{
		ID:       9999,
		Title:    "Ghost",
		Body:     "b",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusDraft,
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSaveWithImage(t *testing.T) {
	svc, q, objects, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	post, err := svc.Save(ctx, viewer, SaveInput{
		Title:    "Saturn Return Survival Guide",
		Body:     "Body.",
		Category: model.CategoryBirthdayAstrology,
		Status:   model.PostStatusPublished,
		Image:    &ImageUpload{Filename: "saturn.jpg", Data: jpegBytes(t)},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if post.ImageURL == "" {
		t.Error("expected image URL to be set")
	}
	if len(objects.puts) != 1 {
		t.Errorf("object puts = %d, want 1", len(objects.puts))
	}
}

func TestSaveImageFailureAborts(t *testing.T) {
	svc, q, objects, cleanup := testService(t)
	defer cleanup()
	objects.fail = true
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	_, err := svc.Save(ctx, viewer, SaveInput{
		Title:    "Doomed Upload",
		Body:     "Body.",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusPublished,
		Image:    &ImageUpload{Filename: "x.jpg", Data: jpegBytes(t)},
	})
	if !apperr.IsKind(err, apperr.KindStorage) {
		t.Fatalf("err = %v, want storage", err)
	}

	count, err := q.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if count != 0 {
		t.Errorf("post count = %d, want 0 (save aborted)", count)
	}
}

func TestCheckSlugAvailable(t *testing.T) {
	svc, q, _, cleanup := testService(t)
	defer cleanup()
	ctx := context.Background()
	viewer := testViewer(t, ctx, q)

	available, err := svc.CheckSlugAvailable(ctx, "free")
	if err != nil {
		t.Fatalf("CheckSlugAvailable: %v", err)
	}
	if !available {
		t.Error("expected unused slug to be available")
	}

	if _, err := svc.Save(ctx, viewer, SaveInput{
		Title:    "Free",
		Body:     "b",
		Category: model.CategoryLunarAstrology,
		Status:   model.PostStatusDraft,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	available, err = svc.CheckSlugAvailable(ctx, "free")
	if err != nil {
		t.Fatalf("CheckSlugAvailable: %v", err)
	}
	if available {
		t.Error("expected taken slug to be unavailable")
	}
}
