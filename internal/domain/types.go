package domain

import "strings"

// LocalizedText maps a locale code to the text variant for that locale.
// Documents are guaranteed to carry at least the catalog's fallback locale.
type LocalizedText map[string]string

// Resolve walks the ordered locale chain and returns the first variant
// present. A missing translation for every locale in the chain resolves to
// the empty string rather than an error.
func (t LocalizedText) Resolve(chain []string) string {
	if len(t) == 0 {
		return ""
	}
	for _, locale := range chain {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			continue
		}
		if value, ok := t[locale]; ok && value != "" {
			return value
		}
	}
	return ""
}

// ItemStatus enumerates the sale states an item can be in.
type ItemStatus string

const (
	// ItemStatusAvailable marks an item that can be added to a cart.
	ItemStatusAvailable ItemStatus = "available"
	// ItemStatusSold marks an item that has been sold and only remains on display.
	ItemStatusSold ItemStatus = "sold"
)

// Item is one catalog entry. Items are read-only for the lifetime of the
// process; no component mutates them after load.
type Item struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Author      string        `json:"author,omitempty"`
	Year        int           `json:"year,omitempty"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	Status      ItemStatus    `json:"status"`
	Category    string        `json:"category"`
	Images      []string      `json:"images,omitempty"`
	Featured    bool          `json:"featured,omitempty"`
	Description LocalizedText `json:"description,omitempty"`
}

// Available reports whether the item can currently be purchased.
func (i Item) Available() bool {
	return i.Status == ItemStatusAvailable
}

// Category groups catalog items under a localized heading.
type Category struct {
	ID    string        `json:"id"`
	Title LocalizedText `json:"title"`
}

// CartLine is one (item id, quantity) pair in a cart. Referential integrity
// against the catalog is not enforced at write time; readers skip lines whose
// item no longer resolves.
type CartLine struct {
	ItemID   string `json:"id"`
	Quantity int    `json:"qty"`
}

// Cart is an ordered sequence of lines, unique by item id. The zero value is
// a valid empty cart.
type Cart struct {
	ID    string
	Lines []CartLine
}

// TotalQuantity sums the quantities across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Line returns the line for the given item id, if present.
func (c Cart) Line(itemID string) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ItemID == itemID {
			return line, true
		}
	}
	return CartLine{}, false
}
