package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/antiquebooks/api/internal/content"
)

func TestListPages(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(t, ts.handler, httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Pages []string `json:"pages"`
	}
	decodeBody(t, rec, &body)
	if len(body.Pages) != 1 || body.Pages[0] != "about" {
		t.Fatalf("unexpected page list: %v", body.Pages)
	}
}

func TestGetPage(t *testing.T) {
	ts := newTestServer(t)

	t.Run("serves the locale variant", func(t *testing.T) {
		rec := doRequest(t, ts.handler, httptest.NewRequest(http.MethodGet, "/api/v1/pages/about?lang=sk", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var page content.Page
		decodeBody(t, rec, &page)
		if page.Locale != "sk" || page.Title != "O nás" {
			t.Fatalf("expected sk page, got %+v", page)
		}
	})

	t.Run("falls back to the default locale", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/about", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		rec := doRequest(t, ts.handler, req)
		var page content.Page
		decodeBody(t, rec, &page)
		if page.Locale != "en" {
			t.Fatalf("expected en fallback, got %+v", page)
		}
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		rec := doRequest(t, ts.handler, httptest.NewRequest(http.MethodGet, "/api/v1/pages/careers", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var body map[string]any
		decodeBody(t, rec, &body)
		if body["error"] != "page_not_found" {
			t.Fatalf("unexpected error payload: %v", body)
		}
	})
}
