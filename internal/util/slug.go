// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode transliteration support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches characters outside the word/hyphen set
	slugRegex = regexp.MustCompile(`[^a-z0-9_-]+`)
	// whitespaceRuns matches runs of whitespace
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title to a URL-friendly slug.
// It transliterates non-ASCII input, converts to lowercase, replaces runs of
// whitespace with a single hyphen, strips everything outside the word/hyphen
// set, and trims leading/trailing hyphens. Applying Slugify to its own output
// returns the input unchanged.
//
// The result is empty only when the title has no transliterable content at
// all; callers must treat an empty slug as invalid.
func Slugify(s string) string {
	// Decompose accents (Café -> Cafe), then transliterate whatever
	// non-ASCII remains (Луна -> Luna, 月 -> Yue)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)

	// Replace whitespace runs with a single hyphen
	result = whitespaceRuns.ReplaceAllString(result, "-")

	// Strip everything outside [a-z0-9_-]
	result = slugRegex.ReplaceAllString(result, "")

	// Collapse consecutive hyphens
	result = multipleHyphens.ReplaceAllString(result, "-")

	// Trim hyphens from start and end
	result = strings.Trim(result, "-")

	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}

	// Must not start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// No consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
