// Package cart implements the persisted shopping cart: a quantity ledger
// keyed by item id, backed by an injected key-value store. The store performs
// no availability checks; gating sold items is the caller's responsibility.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/antiquebooks/api/internal/domain"
	"github.com/antiquebooks/api/internal/platform/kv"
)

var (
	errStorageRequired = errors.New("cart store: storage is required")

	// ErrInvalidInput indicates the caller supplied an empty item id or a
	// non-positive quantity.
	ErrInvalidInput = errors.New("cart store: invalid input")
)

// ItemFinder resolves an item id against the catalog. Lines that no longer
// resolve are skipped when computing totals.
type ItemFinder interface {
	Item(id string) (domain.Item, bool)
}

// StoreDeps wires the persistence and logging dependencies for the cart store.
type StoreDeps struct {
	Storage   kv.Store
	Namespace string
	Logger    *zap.Logger
}

// Store owns all reads and writes of persisted cart state. Mutations hold an
// internal lock so concurrent load/mutate/save sequences never interleave.
type Store struct {
	mu        sync.Mutex
	storage   kv.Store
	namespace string
	logger    *zap.Logger
}

// NewStore constructs a Store enforcing dependency validation.
func NewStore(deps StoreDeps) (*Store, error) {
	if deps.Storage == nil {
		return nil, errStorageRequired
	}
	namespace := strings.TrimSpace(deps.Namespace)
	if namespace == "" {
		namespace = "cart:v1"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage:   deps.Storage,
		namespace: namespace,
		logger:    logger,
	}, nil
}

// Load reads the persisted cart for cartID. Missing or unparsable state
// degrades to an empty cart; persistence failures are logged, never surfaced.
func (s *Store) Load(ctx context.Context, cartID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, cartID)
}

// Add increments the quantity for itemID by qty, appending a new line when
// none exists. The result is persisted best-effort and returned.
func (s *Store) Add(ctx context.Context, cartID, itemID string, qty int) (domain.Cart, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.Cart{}, fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if qty <= 0 {
		return domain.Cart{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, cartID)
	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, domain.CartLine{ItemID: itemID, Quantity: qty})
	}

	s.save(ctx, cart)
	return cart, nil
}

// Remove drops the line for itemID. Removing an absent line is a no-op.
func (s *Store) Remove(ctx context.Context, cartID, itemID string) domain.Cart {
	itemID = strings.TrimSpace(itemID)

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, cartID)
	lines := cart.Lines[:0]
	removed := false
	for _, line := range cart.Lines {
		if line.ItemID == itemID {
			removed = true
			continue
		}
		lines = append(lines, line)
	}
	cart.Lines = lines

	if removed {
		s.save(ctx, cart)
	}
	return cart
}

// Clear empties the persisted cart.
func (s *Store) Clear(ctx context.Context, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key(cartID)); err != nil {
		s.logger.Warn("cart clear failed", zap.String("cart_id", cartID), zap.Error(err))
	}
}

// TotalPrice sums item price times quantity across all lines, resolving each
// line against the catalog. Lines whose item no longer resolves are skipped;
// referential drift across sessions is expected, not an error.
func TotalPrice(cart domain.Cart, catalog ItemFinder) float64 {
	if catalog == nil {
		return 0
	}
	total := 0.0
	for _, line := range cart.Lines {
		item, ok := catalog.Item(line.ItemID)
		if !ok {
			continue
		}
		total += item.Price * float64(line.Quantity)
	}
	return total
}

// load must be called with the mutex held.
func (s *Store) load(ctx context.Context, cartID string) domain.Cart {
	cart := domain.Cart{ID: strings.TrimSpace(cartID)}

	raw, err := s.storage.Get(ctx, s.key(cartID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("cart load failed; treating as empty", zap.String("cart_id", cart.ID), zap.Error(err))
		}
		return cart
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.logger.Warn("cart state unparsable; treating as empty", zap.String("cart_id", cart.ID), zap.Error(err))
		return cart
	}

	cart.Lines = normaliseLines(lines)
	return cart
}

// save must be called with the mutex held. Write failures degrade to
// best-effort persistence: the in-memory result is still returned to callers.
func (s *Store) save(ctx context.Context, cart domain.Cart) {
	raw, err := json.Marshal(normaliseLines(cart.Lines))
	if err != nil {
		s.logger.Warn("cart encode failed", zap.String("cart_id", cart.ID), zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key(cart.ID), string(raw)); err != nil {
		s.logger.Warn("cart persist failed", zap.String("cart_id", cart.ID), zap.Error(err))
	}
}

func (s *Store) key(cartID string) string {
	return s.namespace + ":" + strings.TrimSpace(cartID)
}

// normaliseLines enforces the cart invariants on persisted state: at most one
// line per item id (quantities merged in first-seen order) and no lines with
// a non-positive quantity.
func normaliseLines(lines []domain.CartLine) []domain.CartLine {
	if len(lines) == 0 {
		return []domain.CartLine{}
	}
	index := make(map[string]int, len(lines))
	merged := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.ItemID)
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, domain.CartLine{ItemID: id, Quantity: line.Quantity})
	}
	kept := merged[:0]
	for _, line := range merged {
		if line.Quantity <= 0 {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
