package catalog

import (
	"testing"

	"github.com/antiquebooks/api/internal/domain"
)

func queryFixture() []domain.Item {
	return []domain.Item{
		{
			ID:       "atlas-1650",
			Title:    domain.LocalizedText{"en": "Old Atlas", "sk": "Starý atlas"},
			Author:   "Joan Blaeu",
			Year:     1650,
			Price:    100,
			Currency: "EUR",
			Status:   domain.ItemStatusAvailable,
			Category: "maps",
		},
		{
			ID:       "citymap-1720",
			Title:    domain.LocalizedText{"en": "City Map of Vienna"},
			Author:   "Matthäus Seutter",
			Year:     1720,
			Price:    250,
			Currency: "EUR",
			Status:   domain.ItemStatusAvailable,
			Category: "maps",
		},
		{
			ID:       "psalter-leaf",
			Title:    domain.LocalizedText{"en": "Psalter Leaf"},
			Year:     1440,
			Price:    250,
			Currency: "EUR",
			Status:   domain.ItemStatusSold,
			Category: "manuscripts",
		},
	}
}

func ids(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Item, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v got %v", want, gotIDs)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	items := queryFixture()
	chain := []string{"en"}

	t.Run("no filters preserves natural order", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{}, chain), "atlas-1650", "citymap-1720", "psalter-leaf")
	})

	t.Run("category filter matches exactly", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Category: "manuscripts"}, chain), "psalter-leaf")
	})

	t.Run("text filter matches resolved title", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Text: "map"}, chain), "citymap-1720")
	})

	t.Run("text filter matches author", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Text: "blaeu"}, chain), "atlas-1650")
	})

	t.Run("text filter is case-insensitive", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Text: "ATLAS"}, chain), "atlas-1650")
	})

	t.Run("filters are conjunctive", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Category: "maps", Text: "psalter"}, chain))
	})

	t.Run("text filter respects locale chain", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Text: "starý"}, []string{"sk", "en"}), "atlas-1650")
	})
}

func TestQuerySorting(t *testing.T) {
	items := queryFixture()
	chain := []string{"en"}

	t.Run("price ascending", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Sort: SortPriceAsc}, chain), "atlas-1650", "citymap-1720", "psalter-leaf")
	})

	t.Run("price descending", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Sort: SortPriceDesc}, chain), "citymap-1720", "psalter-leaf", "atlas-1650")
	})

	t.Run("equal keys keep natural order", func(t *testing.T) {
		got := Query(items, QuerySpec{Sort: SortPriceDesc}, chain)
		if got[0].ID != "citymap-1720" || got[1].ID != "psalter-leaf" {
			t.Fatalf("equal-priced items reordered: %v", ids(got))
		}
	})

	t.Run("date descending", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Sort: SortDateDesc}, chain), "citymap-1720", "atlas-1650", "psalter-leaf")
	})

	t.Run("filter applies before sort", func(t *testing.T) {
		assertIDs(t, Query(items, QuerySpec{Category: "maps", Sort: SortPriceDesc}, chain), "citymap-1720", "atlas-1650")
	})
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	items := queryFixture()
	Query(items, QuerySpec{Sort: SortPriceDesc}, []string{"en"})
	assertIDs(t, items, "atlas-1650", "citymap-1720", "psalter-leaf")
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"price_asc":  SortPriceAsc,
		"PRICE_DESC": SortPriceDesc,
		" date_desc": SortDateDesc,
		"":           SortNone,
		"bogus":      SortNone,
	}
	for raw, want := range cases {
		if got := ParseSortKey(raw); got != want {
			t.Fatalf("ParseSortKey(%q) = %q, want %q", raw, got, want)
		}
	}
}
