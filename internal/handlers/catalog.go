package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/antiquebooks/api/internal/catalog"
	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/httpx"
	"github.com/antiquebooks/api/internal/view"
)

// CatalogHandlers exposes the public catalog endpoints: featured items,
// collection queries, item detail and categories.
type CatalogHandlers struct {
	store     *catalog.Store
	projector *view.Projector
	bundle    *i18n.Bundle
	sanitizer DescriptionSanitizer
}

// DescriptionSanitizer cleans item description HTML before it is returned.
type DescriptionSanitizer interface {
	Sanitize(html string) string
}

// NewCatalogHandlers constructs handlers over the loaded catalog.
func NewCatalogHandlers(store *catalog.Store, projector *view.Projector, bundle *i18n.Bundle, sanitizer DescriptionSanitizer) *CatalogHandlers {
	return &CatalogHandlers{
		store:     store,
		projector: projector,
		bundle:    bundle,
		sanitizer: sanitizer,
	}
}

// Routes wires the /catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/featured", h.listFeatured)
	r.Get("/items", h.listItems)
	r.Get("/items/{itemID}", h.getItem)
	r.Get("/categories", h.listCategories)
}

type cardListResponse struct {
	Locale string      `json:"locale"`
	Count  int         `json:"count"`
	Items  []view.Card `json:"items"`
}

func (h *CatalogHandlers) listFeatured(w http.ResponseWriter, r *http.Request) {
	locale := activeLocale(r, h.bundle)
	chain := h.bundle.Chain(locale)

	items := h.store.Featured()
	cards := make([]view.Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, h.projector.Card(item, locale, chain))
	}

	writeJSONResponse(w, http.StatusOK, cardListResponse{Locale: locale, Count: len(cards), Items: cards})
}

func (h *CatalogHandlers) listItems(w http.ResponseWriter, r *http.Request) {
	locale := activeLocale(r, h.bundle)
	chain := h.bundle.Chain(locale)

	query := r.URL.Query()
	spec := catalog.QuerySpec{
		Category: strings.TrimSpace(query.Get("category")),
		Text:     query.Get("q"),
		Sort:     catalog.ParseSortKey(query.Get("sort")),
	}

	items := h.store.Search(spec, chain)
	cards := make([]view.Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, h.projector.Card(item, locale, chain))
	}

	writeJSONResponse(w, http.StatusOK, cardListResponse{Locale: locale, Count: len(cards), Items: cards})
}

type itemDetailResponse struct {
	view.Card
	Author      string   `json:"author,omitempty"`
	Year        int      `json:"year,omitempty"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func (h *CatalogHandlers) getItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	item, ok := h.store.Item(itemID)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("item_not_found", "item not found", http.StatusNotFound))
		return
	}

	locale := activeLocale(r, h.bundle)
	chain := h.bundle.Chain(locale)

	description := item.Description.Resolve(chain)
	if description != "" && h.sanitizer != nil {
		description = h.sanitizer.Sanitize(description)
	}

	payload := itemDetailResponse{
		Card:        h.projector.Card(item, locale, chain),
		Author:      item.Author,
		Year:        item.Year,
		Status:      string(item.Status),
		Category:    item.Category,
		Description: description,
		Images:      item.Images,
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type categoryPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	locale := activeLocale(r, h.bundle)
	chain := h.bundle.Chain(locale)

	categories := h.store.Categories()
	payload := make([]categoryPayload, 0, len(categories))
	for _, category := range categories {
		payload = append(payload, categoryPayload{
			ID:    category.ID,
			Title: category.Title.Resolve(chain),
		})
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"locale":     locale,
		"categories": payload,
	})
}
