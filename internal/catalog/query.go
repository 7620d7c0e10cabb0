package catalog

import (
	"sort"
	"strings"

	"github.com/antiquebooks/api/internal/domain"
)

// SortKey selects the ordering applied to query results.
type SortKey string

const (
	// SortNone preserves the catalog's natural order.
	SortNone SortKey = ""
	// SortPriceAsc orders by ascending price.
	SortPriceAsc SortKey = "price_asc"
	// SortPriceDesc orders by descending price.
	SortPriceDesc SortKey = "price_desc"
	// SortDateDesc orders by descending publication year, treating a missing
	// year as 0.
	SortDateDesc SortKey = "date_desc"
)

// ParseSortKey maps a raw query parameter onto a SortKey. Unknown values
// degrade to SortNone rather than failing the query.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortDateDesc:
		return SortDateDesc
	default:
		return SortNone
	}
}

// QuerySpec combines the user inputs driving a collection query.
type QuerySpec struct {
	// Category filters to items whose category id matches exactly. Empty
	// means no category filter.
	Category string
	// Text filters to items whose locale-resolved title or author contains
	// the value case-insensitively. Empty means no text filter.
	Text string
	// Sort selects the result ordering.
	Sort SortKey
}

// Query filters and sorts the items according to spec. Filters are
// conjunctive and always applied before sorting; sorting is stable so equal
// keys keep their catalog order. The locale chain resolves item titles for
// text matching; an item with no resolvable title matches as the empty
// string. The function is pure: inputs are never mutated.
func Query(items []domain.Item, spec QuerySpec, localeChain []string) []domain.Item {
	category := strings.TrimSpace(spec.Category)
	text := strings.ToLower(strings.TrimSpace(spec.Text))

	result := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if text != "" && !matchesText(item, text, localeChain) {
			continue
		}
		result = append(result, item)
	}

	switch spec.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortDateDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Year > result[j].Year })
	}

	return result
}

func matchesText(item domain.Item, loweredQuery string, localeChain []string) bool {
	title := strings.ToLower(item.Title.Resolve(localeChain))
	if strings.Contains(title, loweredQuery) {
		return true
	}
	author := strings.ToLower(item.Author)
	return author != "" && strings.Contains(author, loweredQuery)
}
