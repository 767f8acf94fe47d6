// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get err = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("deleted key err = %v, want ErrCacheMiss", err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("cleared key err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	_ = c.Close()

	if _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get err = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set err = %v, want ErrCacheClosed", err)
	}
	// Closing twice is fine
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	original := []byte("immutable")
	_ = c.Set(ctx, "k", original, 0)
	original[0] = 'X'

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "immutable" {
		t.Errorf("stored value mutated: %q", got)
	}
}
