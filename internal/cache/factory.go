// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// New creates a cache backend. A non-empty redisURL selects Redis; on
// connection failure the error is logged and the memory backend is used
// instead, so a missing Redis never blocks startup.
func New(redisURL, prefix string, defaultTTL time.Duration, logger *slog.Logger) Cache {
	if redisURL != "" {
		c, err := NewRedisCache(redisURL, prefix, defaultTTL)
		if err == nil {
			logger.Info("using redis cache", "prefix", prefix)
			return c
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"error", fmt.Sprintf("%v", err))
	}
	return NewMemoryCache(defaultTTL)
}
