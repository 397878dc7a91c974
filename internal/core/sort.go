package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/carlogos/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	// SortByDataset keeps the order the dataset was received in.
	SortByDataset SortField = "dataset"
	SortByName    SortField = "name"
	SortBySlug    SortField = "slug"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns the dataset order.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByDataset,
		Order: SortAsc,
	}
}

// Sort returns a sorted copy of logos. The input is never reordered.
func Sort(logos []model.Logo, opts SortOptions) []model.Logo {
	result := make([]model.Logo, len(logos))
	copy(result, logos)

	if opts.Field == SortByDataset || opts.Field == "" {
		if opts.Order == SortDesc {
			for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
				result[i], result[j] = result[j], result[i]
			}
		}
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		var a, b string
		switch opts.Field {
		case SortBySlug:
			a, b = result[i].Slug, result[j].Slug
		default:
			a, b = result[i].Name, result[j].Name
		}
		a, b = strings.ToLower(a), strings.ToLower(b)
		if opts.Order == SortDesc {
			return a > b
		}
		return a < b
	})
	return result
}

// ParseSortField parses a sort field string. Unknown values keep dataset order.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "n":
		return SortByName
	case "slug", "s":
		return SortBySlug
	default:
		return SortByDataset
	}
}

// ParseSortOrder parses a sort order string. Unknown values are ascending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "d":
		return SortDesc
	default:
		return SortAsc
	}
}
