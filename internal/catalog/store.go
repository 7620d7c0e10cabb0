// Package catalog holds the immutable item and category documents for the
// lifetime of the process and the query pipeline evaluated over them.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antiquebooks/api/internal/domain"
)

const (
	categoriesDocument = "categories.json"
	itemsDocument      = "items.json"
)

var (
	// ErrInvalidDocument indicates the catalog documents violate the schema.
	ErrInvalidDocument = errors.New("catalog: invalid document")
)

// Store owns the catalog documents. It is populated once and never mutated,
// so all accessors are safe for concurrent use.
type Store struct {
	items      []domain.Item
	categories []domain.Category
	itemIndex  map[string]int
}

// Load reads categories.json and items.json from dataDir and builds a Store.
func Load(dataDir string) (*Store, error) {
	var categories []domain.Category
	if err := readDocument(filepath.Join(dataDir, categoriesDocument), &categories); err != nil {
		return nil, err
	}
	var items []domain.Item
	if err := readDocument(filepath.Join(dataDir, itemsDocument), &items); err != nil {
		return nil, err
	}
	return NewStore(categories, items)
}

// NewStore validates the documents and builds the immutable store. Item ids
// must be unique and non-empty; every item keeps its document order, which is
// the catalog's natural order for unsorted queries.
func NewStore(categories []domain.Category, items []domain.Item) (*Store, error) {
	index := make(map[string]int, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalidDocument, i)
		}
		if _, exists := index[id]; exists {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidDocument, id)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: item %q has negative price", ErrInvalidDocument, id)
		}
		index[id] = i
	}

	seen := make(map[string]struct{}, len(categories))
	for i, category := range categories {
		id := strings.TrimSpace(category.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: category %d has no id", ErrInvalidDocument, i)
		}
		if _, exists := seen[id]; exists {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidDocument, id)
		}
		seen[id] = struct{}{}
	}

	return &Store{
		items:      append([]domain.Item(nil), items...),
		categories: append([]domain.Category(nil), categories...),
		itemIndex:  index,
	}, nil
}

func readDocument(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, filepath.Base(path), err)
	}
	return nil
}

// Items returns all items in natural (document) order.
func (s *Store) Items() []domain.Item {
	return append([]domain.Item(nil), s.items...)
}

// Categories returns all categories in document order.
func (s *Store) Categories() []domain.Category {
	return append([]domain.Category(nil), s.categories...)
}

// Item returns the item with the given id.
func (s *Store) Item(id string) (domain.Item, bool) {
	i, ok := s.itemIndex[strings.TrimSpace(id)]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[i], true
}

// Featured returns the items flagged for the homepage, in natural order.
func (s *Store) Featured() []domain.Item {
	var featured []domain.Item
	for _, item := range s.items {
		if item.Featured {
			featured = append(featured, item)
		}
	}
	return featured
}

// Search runs the query pipeline over the full catalog.
func (s *Store) Search(spec QuerySpec, localeChain []string) []domain.Item {
	return Query(s.items, spec, localeChain)
}

// Len reports the number of items in the catalog.
func (s *Store) Len() int { return len(s.items) }
