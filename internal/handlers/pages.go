package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/antiquebooks/api/internal/content"
	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/httpx"
)

// PageHandlers serves the localized static content pages.
type PageHandlers struct {
	library *content.Library
	bundle  *i18n.Bundle
}

// NewPageHandlers constructs handlers over the loaded page library.
func NewPageHandlers(library *content.Library, bundle *i18n.Bundle) *PageHandlers {
	return &PageHandlers{library: library, bundle: bundle}
}

// Routes wires the /pages endpoints onto the provided router.
func (h *PageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listPages)
	r.Get("/{slug}", h.getPage)
}

func (h *PageHandlers) listPages(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"pages": h.library.Slugs(),
	})
}

func (h *PageHandlers) getPage(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	locale := activeLocale(r, h.bundle)

	page, ok := h.library.Get(slug, h.bundle.Chain(locale))
	if !ok {
		httpx.WriteError(r.Context(), w, httpx.NewError("page_not_found", "page not found", http.StatusNotFound))
		return
	}

	writeJSONResponse(w, http.StatusOK, page)
}
