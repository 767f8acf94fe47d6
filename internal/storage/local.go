// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore stores objects on the local filesystem under a base directory
// and serves them under a URL prefix.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore creates a filesystem-backed object store. Objects written
// under baseDir are addressable as urlPrefix + "/" + path.
func NewLocalStore(baseDir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Put writes the payload to disk and returns its public URL.
func (s *LocalStore) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	clean, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o644); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}

	return s.urlPrefix + "/" + filepath.ToSlash(path), nil
}

// Delete removes an object. Missing objects are ignored.
func (s *LocalStore) Delete(_ context.Context, path string) error {
	clean, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

// resolve joins path under the base directory and rejects traversal outside it.
func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Join(s.baseDir, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.baseDir, clean)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return clean, nil
}
