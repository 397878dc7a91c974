// Package core provides filtering, sorting, and lookup logic.
package core

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/carlogos/internal/model"
)

// NormalizeTerm trims and lowercases a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports whether a logo matches an already normalized term.
// A logo matches when its lowercased name or slug contains the term.
func Matches(l *model.Logo, normalized string) bool {
	return strings.Contains(strings.ToLower(l.Name), normalized) ||
		strings.Contains(strings.ToLower(l.Slug), normalized)
}

// Filter returns the logos matching term, preserving input order.
//
// An empty or whitespace-only term returns logos unchanged. Otherwise a new
// slice is returned and logos is never modified.
func Filter(term string, logos []model.Logo) []model.Logo {
	normalized := NormalizeTerm(term)
	if normalized == "" {
		return logos
	}

	result := make([]model.Logo, 0, len(logos))
	for i := range logos {
		if Matches(&logos[i], normalized) {
			result = append(result, logos[i])
		}
	}
	return result
}

// CountLabel returns the results-count text shown above the grid.
func CountLabel(count, total int) string {
	if count == total {
		return fmt.Sprintf("Showing all %d logos", total)
	}
	return fmt.Sprintf("Found %d of %d logos", count, total)
}
