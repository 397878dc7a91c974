package core

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/carlogos/internal/model"
)

// LookupByIndex finds a logo by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(logos []model.Logo, index int) *model.Logo {
	idx := index - 1
	if idx < 0 || idx >= len(logos) {
		return nil
	}
	return &logos[idx]
}

// LookupBySlug finds a logo by exact slug, then by case-insensitive name.
func LookupBySlug(logos []model.Logo, slug string) *model.Logo {
	for i := range logos {
		if logos[i].Slug == slug {
			return &logos[i]
		}
	}
	for i := range logos {
		if strings.EqualFold(logos[i].Name, slug) {
			return &logos[i]
		}
	}
	return nil
}

// Lookup resolves a user reference: a positive 1-based index, or a slug/name.
func Lookup(logos []model.Logo, ref string) *model.Logo {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx > 0 {
		return LookupByIndex(logos, idx)
	}
	return LookupBySlug(logos, ref)
}
