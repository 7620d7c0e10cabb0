// Package i18n loads per-locale translation dictionaries and negotiates the
// active locale for a request. Lookups fall back through an explicit, ordered
// locale chain; nothing in this package carries a hidden default.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Bundle holds the translation dictionaries for all supported locales.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// Load reads <locale>.json dictionaries from dir for every supported locale.
// The fallback locale's dictionary is mandatory; other locales may be absent.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if fallback == "" {
		return nil, fmt.Errorf("i18n: fallback locale is required")
	}
	if len(supported) == 0 {
		supported = []string{fallback}
	}

	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, locale := range supported {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale == "" {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("i18n: unsupported locale %q: %w", locale, err)
		}
		b.supported = append(b.supported, locale)
		tags = append(tags, tag)

		raw, err := os.ReadFile(filepath.Join(dir, locale+".json"))
		if err != nil {
			if locale == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", locale, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", locale, err)
		}
		b.dict[locale] = m
	}

	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}
	if !b.isSupported(fallback) {
		return nil, fmt.Errorf("i18n: fallback locale %s not in supported set", fallback)
	}

	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported returns the supported locales in sorted order.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.supported))
	copy(out, b.supported)
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback locale.
func (b *Bundle) Fallback() string { return b.fallback }

func (b *Bundle) isSupported(locale string) bool {
	for _, l := range b.supported {
		if l == locale {
			return true
		}
	}
	return false
}

// Chain returns the ordered fallback chain for the given locale: the locale
// itself when supported, terminated by the fallback locale.
func (b *Bundle) Chain(locale string) []string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || locale == b.fallback || !b.isSupported(locale) {
		return []string{b.fallback}
	}
	return []string{locale, b.fallback}
}

// T returns the translation for key in locale, falling back through the
// locale chain and finally to the key itself.
func (b *Bundle) T(locale, key string) string {
	for _, l := range b.Chain(locale) {
		if m, ok := b.dict[l]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	return key
}

// Resolve picks the best supported locale for the request: an explicit locale
// wins when supported, then the Accept-Language header is matched, then the
// fallback locale.
func (b *Bundle) Resolve(explicit, acceptLanguage string) string {
	explicit = strings.ToLower(strings.TrimSpace(explicit))
	if explicit != "" && b.isSupported(explicit) {
		return explicit
	}

	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			_, index, confidence := b.matcher.Match(tags...)
			if confidence > language.No && index >= 0 && index < len(b.supported) {
				return b.supported[index]
			}
		}
	}

	return b.fallback
}
