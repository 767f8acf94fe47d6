// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds shared domain types and constants.
package model

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// ValidPostStatuses contains all valid post statuses.
var ValidPostStatuses = []string{PostStatusDraft, PostStatusPublished}

// IsValidPostStatus checks if a status is valid.
func IsValidPostStatus(status string) bool {
	for _, s := range ValidPostStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Post categories. The set is fixed; posts outside it are rejected at save time.
const (
	CategoryLunarAstrology        = "lunar-astrology"
	CategoryPlanetaryMovements    = "planetary-movements"
	CategoryBirthdayAstrology     = "birthday-astrology"
	CategoryRelationshipAstrology = "relationship-astrology"
	CategorySpiritualGrowth       = "spiritual-growth"
)

// ValidCategories contains all valid post categories.
var ValidCategories = []string{
	CategoryLunarAstrology,
	CategoryPlanetaryMovements,
	CategoryBirthdayAstrology,
	CategoryRelationshipAstrology,
	CategorySpiritualGrowth,
}

// IsValidCategory checks if a category belongs to the fixed set.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}
