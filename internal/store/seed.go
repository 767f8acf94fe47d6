// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lunareve/lunar-go/internal/auth"
	"github.com/lunareve/lunar-go/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data in the database. When doSeed is false only the
// default admin account is ensured.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	queries := New(db)

	// Check if admin user already exists
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)

	if !doSeed {
		return nil
	}

	// Sample content lands whole or not at all
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedSampleContent(ctx, queries.WithTx(tx), user.ID, now); err != nil {
		return err
	}
	return tx.Commit()
}

// seedSampleContent inserts a starter post and service so a fresh install has
// something to render.
func seedSampleContent(ctx context.Context, queries *Queries, adminID int64, now time.Time) error {
	exists, err := queries.SlugExists(ctx, "welcome-to-lunar")
	if err != nil {
		return fmt.Errorf("checking for sample post: %w", err)
	}
	if exists {
		return nil
	}

	_, err = queries.CreatePost(ctx, CreatePostParams{
		Title:     "Welcome to Lunar",
		Slug:      "welcome-to-lunar",
		Body:      "The stars have stories to tell.\nThis is where we write them down.",
		Category:  model.CategorySpiritualGrowth,
		Excerpt:   "The stars have stories to tell. This is where we write them down.",
		ReadTime:  "1 minute read",
		Status:    model.PostStatusPublished,
		AuthorID:  adminID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating sample post: %w", err)
	}

	_, err = queries.CreateService(ctx, CreateServiceParams{
		Title:       "Birth Chart Reading",
		Description: "A full natal chart session covering placements, houses, and aspects.",
		Price:       "$150",
		Duration:    "90 minutes",
		Icon:        "star",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("creating sample service: %w", err)
	}

	slog.Info("seeded sample content")
	return nil
}
