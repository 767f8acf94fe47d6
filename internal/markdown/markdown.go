// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous markup from rendered output. UGCPolicy
// allows the safe subset of HTML appropriate for author-written content.
var htmlSanitizer = bluemonday.UGCPolicy()

// Render converts markdown to sanitized HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
