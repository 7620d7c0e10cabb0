// Package content serves the localized static pages of the site (about,
// visit, shipping). Pages are markdown files with YAML front matter named
// <slug>.<locale>.md, loaded once at startup and rendered to sanitized HTML.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// Sanitizer returns the HTML policy applied to rendered rich text. Item
// descriptions and page bodies share the same policy.
func Sanitizer() *bluemonday.Policy {
	return bluemonday.UGCPolicy()
}

// Page is one localized static page rendered to HTML.
type Page struct {
	Slug    string `json:"slug"`
	Locale  string `json:"locale"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Body    string `json:"body"`
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

// Library holds all loaded pages keyed by slug and locale.
type Library struct {
	pages map[string]map[string]Page
}

// Load reads every <slug>.<locale>.md file under dir. A missing directory
// yields an empty library rather than an error; static pages are optional.
func Load(dir string) (*Library, error) {
	lib := &Library{pages: map[string]map[string]Page{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("content: read dir: %w", err)
	}

	markdown := goldmark.New()
	sanitizer := Sanitizer()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".md") {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(name, ".md"), ".")
		if len(parts) != 2 {
			continue
		}
		slug := strings.TrimSpace(parts[0])
		locale := strings.ToLower(strings.TrimSpace(parts[1]))
		if slug == "" || locale == "" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", name, err)
		}

		page, err := parsePage(raw, slug, locale, markdown, sanitizer)
		if err != nil {
			return nil, fmt.Errorf("content: parse %s: %w", name, err)
		}

		if lib.pages[slug] == nil {
			lib.pages[slug] = map[string]Page{}
		}
		lib.pages[slug][locale] = page
	}

	return lib, nil
}

func parsePage(raw []byte, slug, locale string, markdown goldmark.Markdown, sanitizer *bluemonday.Policy) (Page, error) {
	meta, body := splitFrontMatter(raw)

	var fm frontMatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return Page{}, fmt.Errorf("front matter: %w", err)
		}
	}

	var rendered bytes.Buffer
	if err := markdown.Convert(body, &rendered); err != nil {
		return Page{}, fmt.Errorf("render markdown: %w", err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = slug
	}

	return Page{
		Slug:    slug,
		Locale:  locale,
		Title:   title,
		Summary: strings.TrimSpace(fm.Summary),
		Body:    sanitizer.Sanitize(rendered.String()),
	}, nil
}

func splitFrontMatter(raw []byte) (meta []byte, body []byte) {
	text := string(raw)
	if !strings.HasPrefix(text, frontMatterDelimiter) {
		return nil, raw
	}
	rest := strings.TrimPrefix(text, frontMatterDelimiter)
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx < 0 {
		return nil, raw
	}
	meta = []byte(rest[:idx])
	after := rest[idx+len("\n"+frontMatterDelimiter):]
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		after = after[nl+1:]
	} else {
		after = ""
	}
	return meta, []byte(after)
}

// Get resolves the page for slug through the ordered locale chain.
func (l *Library) Get(slug string, chain []string) (Page, bool) {
	variants, ok := l.pages[strings.TrimSpace(slug)]
	if !ok {
		return Page{}, false
	}
	for _, locale := range chain {
		if page, ok := variants[strings.ToLower(strings.TrimSpace(locale))]; ok {
			return page, true
		}
	}
	return Page{}, false
}

// Slugs lists the available page slugs in sorted order.
func (l *Library) Slugs() []string {
	slugs := make([]string, 0, len(l.pages))
	for slug := range l.pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
