// Package config maps environment variables into the typed runtime
// configuration consumed by cmd/api. Configuration is read once at startup
// and treated as immutable afterwards.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Locale  LocaleConfig
	Cart    CartConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
}

// CatalogConfig points at the static documents served by the catalog.
type CatalogConfig struct {
	DataDir          string `env:"DATA_DIR" envDefault:"./data"`
	ContentDir       string `env:"CONTENT_DIR" envDefault:"./content"`
	PlaceholderImage string `env:"PLACEHOLDER_IMAGE" envDefault:"/assets/images/placeholder.jpg"`
	ItemDetailPath   string `env:"ITEM_DETAIL_PATH" envDefault:"/items"`
}

// LocaleConfig controls translation loading and locale negotiation.
type LocaleConfig struct {
	Dir       string   `env:"LOCALES_DIR" envDefault:"./i18n"`
	Default   string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	Supported []string `env:"SUPPORTED_LOCALES" envSeparator:"," envDefault:"en,sk,de"`
}

// CartConfig controls cart persistence. An empty RedisURL selects the
// in-memory store.
type CartConfig struct {
	RedisURL  string `env:"REDIS_URL"`
	Namespace string `env:"CART_NAMESPACE" envDefault:"cart:v1"`
}

// Load parses environment variables into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Locale.Default = strings.ToLower(strings.TrimSpace(c.Locale.Default))
	if c.Locale.Default == "" {
		return fmt.Errorf("config: DEFAULT_LOCALE must not be empty")
	}

	supported := make([]string, 0, len(c.Locale.Supported))
	seen := make(map[string]struct{}, len(c.Locale.Supported))
	for _, locale := range c.Locale.Supported {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale == "" {
			continue
		}
		if _, ok := seen[locale]; ok {
			continue
		}
		seen[locale] = struct{}{}
		supported = append(supported, locale)
	}
	if len(supported) == 0 {
		return fmt.Errorf("config: SUPPORTED_LOCALES must name at least one locale")
	}
	if _, ok := seen[c.Locale.Default]; !ok {
		return fmt.Errorf("config: DEFAULT_LOCALE %q is not in SUPPORTED_LOCALES", c.Locale.Default)
	}
	c.Locale.Supported = supported

	if strings.TrimSpace(c.Cart.Namespace) == "" {
		return fmt.Errorf("config: CART_NAMESPACE must not be empty")
	}

	return nil
}
