// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"fmt"
	"strings"
)

// wordsPerMinute is the fixed reading speed used for estimates.
const wordsPerMinute = 200

// DeriveExcerpt returns the listing summary for a post body: the first two
// newline-delimited segments joined with a single space. Bodies with fewer
// than two segments use what exists.
func DeriveExcerpt(body string) string {
	segments := strings.Split(body, "\n")
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return strings.Join(segments, " ")
}

// EstimateReadingTime returns a human-readable reading time estimate for the
// body, rounding up to whole minutes with a floor of one.
func EstimateReadingTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes <= 1 {
		return "1 minute read"
	}
	return fmt.Sprintf("%d minutes read", minutes)
}
