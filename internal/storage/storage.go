// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage abstracts binary object storage behind a small interface.
package storage

import "context"

// ObjectStore accepts a binary payload under a target path and returns a
// publicly resolvable URL for it.
type ObjectStore interface {
	// Put stores data under path and returns the public URL.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Delete removes a previously stored object. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, path string) error
}
