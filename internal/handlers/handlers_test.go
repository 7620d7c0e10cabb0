package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/antiquebooks/api/internal/cart"
	"github.com/antiquebooks/api/internal/catalog"
	"github.com/antiquebooks/api/internal/content"
	"github.com/antiquebooks/api/internal/domain"
	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/kv"
	"github.com/antiquebooks/api/internal/view"
)

func fixtureCategories() []domain.Category {
	return []domain.Category{
		{ID: "maps", Title: domain.LocalizedText{"en": "Maps", "sk": "Mapy"}},
		{ID: "manuscripts", Title: domain.LocalizedText{"en": "Manuscripts"}},
	}
}

func fixtureItems() []domain.Item {
	return []domain.Item{
		{
			ID:          "atlas-1650",
			Title:       domain.LocalizedText{"en": "Old Atlas", "sk": "Starý atlas"},
			Author:      "Joan Blaeu",
			Year:        1650,
			Price:       100,
			Currency:    "EUR",
			Status:      domain.ItemStatusAvailable,
			Category:    "maps",
			Featured:    true,
			Description: domain.LocalizedText{"en": "<p>A fine atlas.</p><script>alert(1)</script>"},
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
			Price:    2200,
			Currency: "EUR",
			Status:   domain.ItemStatusSold,
			Category: "manuscripts",
			Featured: true,
		},
	}
}

func newTestBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	dir := t.TempDir()
	en := `{"status_sold":"Sold","status_available":"Available"}`
	sk := `{"status_sold":"Predané"}`
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(en), 0o600); err != nil {
		t.Fatalf("write en.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sk.json"), []byte(sk), 0o600); err != nil {
		t.Fatalf("write sk.json: %v", err)
	}
	bundle, err := i18n.Load(dir, "en", []string{"en", "sk"})
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	return bundle
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := catalog.NewStore(fixtureCategories(), fixtureItems())
	if err != nil {
		t.Fatalf("catalog.NewStore: %v", err)
	}

	bundle := newTestBundle(t)

	carts, err := cart.NewStore(cart.StoreDeps{Storage: kv.NewMemory(), Namespace: "cart:test"})
	if err != nil {
		t.Fatalf("cart.NewStore: %v", err)
	}

	projector, err := view.NewProjector(view.ProjectorDeps{Translator: bundle})
	if err != nil {
		t.Fatalf("view.NewProjector: %v", err)
	}

	pagesDir := t.TempDir()
	aboutEN := "---\ntitle: About\n---\nEnglish body.\n"
	aboutSK := "---\ntitle: O nás\n---\nSlovenský text.\n"
	if err := os.WriteFile(filepath.Join(pagesDir, "about.en.md"), []byte(aboutEN), 0o600); err != nil {
		t.Fatalf("write about.en.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pagesDir, "about.sk.md"), []byte(aboutSK), 0o600); err != nil {
		t.Fatalf("write about.sk.md: %v", err)
	}
	library, err := content.Load(pagesDir)
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}

	catalogHandlers := NewCatalogHandlers(store, projector, bundle, content.Sanitizer())
	cartHandlers := NewCartHandlers(carts, store, projector, bundle)
	cartHandlers.newID = func() string { return "test-cart-id" }
	pageHandlers := NewPageHandlers(library, bundle)

	router := NewRouter(
		WithMiddlewares(LocaleMiddleware(bundle)),
		WithCatalogRoutes(catalogHandlers.Routes),
		WithCartRoutes(cartHandlers.Routes),
		WithPageRoutes(pageHandlers.Routes),
	)

	return &testServer{handler: router}
}
