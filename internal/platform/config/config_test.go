package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout %v", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.DataDir != "./data" {
		t.Fatalf("unexpected data dir %q", cfg.Catalog.DataDir)
	}
	if cfg.Locale.Default != "en" {
		t.Fatalf("unexpected default locale %q", cfg.Locale.Default)
	}
	if len(cfg.Locale.Supported) != 3 {
		t.Fatalf("unexpected supported locales %v", cfg.Locale.Supported)
	}
	if cfg.Cart.Namespace != "cart:v1" {
		t.Fatalf("unexpected cart namespace %q", cfg.Cart.Namespace)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SUPPORTED_LOCALES", "en,SK")
	t.Setenv("DEFAULT_LOCALE", "SK")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.Locale.Default != "sk" {
		t.Fatalf("expected lowercased default locale, got %q", cfg.Locale.Default)
	}
	for _, locale := range cfg.Locale.Supported {
		if locale != "en" && locale != "sk" {
			t.Fatalf("unexpected supported locale %q", locale)
		}
	}
	if cfg.Cart.RedisURL == "" {
		t.Fatal("expected redis url to be set")
	}
}

func TestLoadRejectsInconsistentLocales(t *testing.T) {
	t.Setenv("DEFAULT_LOCALE", "fr")
	t.Setenv("SUPPORTED_LOCALES", "en,sk")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default locale outside supported set")
	}
}

func TestLoadRejectsEmptyDefaultLocale(t *testing.T) {
	t.Setenv("DEFAULT_LOCALE", "  ")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty default locale")
	}
}
