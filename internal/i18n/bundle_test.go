package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLocale(t *testing.T, dir, locale, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, locale+".json"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s.json: %v", locale, err)
	}
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"greeting":"Hello","only_en":"English only"}`)
	writeLocale(t, dir, "sk", `{"greeting":"Ahoj"}`)

	bundle, err := Load(dir, "en", []string{"en", "sk", "de"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return bundle
}

func TestLoad(t *testing.T) {
	t.Run("missing fallback dictionary fails", func(t *testing.T) {
		dir := t.TempDir()
		writeLocale(t, dir, "sk", `{"greeting":"Ahoj"}`)
		if _, err := Load(dir, "en", []string{"en", "sk"}); err == nil {
			t.Fatal("expected error for missing fallback dictionary")
		}
	})

	t.Run("missing secondary dictionary is tolerated", func(t *testing.T) {
		bundle := testBundle(t)
		supported := bundle.Supported()
		if len(supported) != 3 {
			t.Fatalf("expected 3 supported locales, got %v", supported)
		}
	})

	t.Run("malformed locale code fails", func(t *testing.T) {
		dir := t.TempDir()
		writeLocale(t, dir, "en", `{}`)
		if _, err := Load(dir, "en", []string{"en", "!!"}); err == nil {
			t.Fatal("expected error for malformed locale code")
		}
	})
}

func TestChain(t *testing.T) {
	bundle := testBundle(t)

	cases := []struct {
		locale string
		want   []string
	}{
		{"sk", []string{"sk", "en"}},
		{"en", []string{"en"}},
		{"", []string{"en"}},
		{"fr", []string{"en"}},
	}
	for _, tc := range cases {
		got := bundle.Chain(tc.locale)
		if len(got) != len(tc.want) {
			t.Fatalf("Chain(%q) = %v, want %v", tc.locale, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("Chain(%q) = %v, want %v", tc.locale, got, tc.want)
			}
		}
	}
}

func TestT(t *testing.T) {
	bundle := testBundle(t)

	if got := bundle.T("sk", "greeting"); got != "Ahoj" {
		t.Fatalf("expected sk translation, got %q", got)
	}
	if got := bundle.T("sk", "only_en"); got != "English only" {
		t.Fatalf("expected fallback translation, got %q", got)
	}
	if got := bundle.T("sk", "nonexistent"); got != "nonexistent" {
		t.Fatalf("expected key echo for missing translation, got %q", got)
	}
	if got := bundle.T("de", "greeting"); got != "Hello" {
		t.Fatalf("expected fallback for locale without dictionary, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	bundle := testBundle(t)

	t.Run("explicit supported locale wins", func(t *testing.T) {
		if got := bundle.Resolve("sk", "de-DE,de;q=0.9"); got != "sk" {
			t.Fatalf("expected sk, got %q", got)
		}
	})

	t.Run("explicit unsupported locale falls through to header", func(t *testing.T) {
		if got := bundle.Resolve("fr", "de-DE,de;q=0.9"); got != "de" {
			t.Fatalf("expected de, got %q", got)
		}
	})

	t.Run("header negotiation picks best supported match", func(t *testing.T) {
		if got := bundle.Resolve("", "sk-SK,sk;q=0.9,en;q=0.5"); got != "sk" {
			t.Fatalf("expected sk, got %q", got)
		}
	})

	t.Run("no signal yields fallback", func(t *testing.T) {
		if got := bundle.Resolve("", ""); got != "en" {
			t.Fatalf("expected en, got %q", got)
		}
	})

	t.Run("garbage header yields fallback", func(t *testing.T) {
		if got := bundle.Resolve("", ";;;"); got != "en" {
			t.Fatalf("expected en, got %q", got)
		}
	})
}
