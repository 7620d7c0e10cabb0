// Package view maps catalog items onto display-ready records for page
// renderers: localized title, formatted price or sold label, image and
// detail link.
package view

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/antiquebooks/api/internal/domain"
)

const soldLabelKey = "status_sold"

var errTranslatorRequired = errors.New("view: translator is required")

// Translator resolves a translation key for a locale. The i18n bundle
// satisfies this interface.
type Translator interface {
	T(locale, key string) string
}

// Card is the display-ready projection of a single item.
type Card struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"title"`
	DisplayPrice string `json:"price"`
	ImageURL     string `json:"image"`
	DetailLink   string `json:"link"`
	Sold         bool   `json:"sold"`
}

// ProjectorDeps wires the translation and link-building inputs.
type ProjectorDeps struct {
	Translator       Translator
	PlaceholderImage string
	DetailPath       string
}

// Projector builds Cards. It is stateless after construction and safe for
// concurrent use.
type Projector struct {
	translator  Translator
	placeholder string
	detailPath  string
}

// NewProjector constructs a Projector enforcing dependency validation.
func NewProjector(deps ProjectorDeps) (*Projector, error) {
	if deps.Translator == nil {
		return nil, errTranslatorRequired
	}
	placeholder := strings.TrimSpace(deps.PlaceholderImage)
	if placeholder == "" {
		placeholder = "/assets/images/placeholder.jpg"
	}
	detailPath := strings.TrimRight(strings.TrimSpace(deps.DetailPath), "/")
	if detailPath == "" {
		detailPath = "/items"
	}
	return &Projector{
		translator:  deps.Translator,
		placeholder: placeholder,
		detailPath:  detailPath,
	}, nil
}

// Card projects the item for the active locale. The locale chain resolves
// the title; sold items show the localized sold label instead of a price.
func (p *Projector) Card(item domain.Item, locale string, chain []string) Card {
	return Card{
		ID:           item.ID,
		DisplayTitle: item.Title.Resolve(chain),
		DisplayPrice: p.displayPrice(item, locale),
		ImageURL:     p.imageURL(item),
		DetailLink:   p.detailLink(item.ID, locale),
		Sold:         item.Status == domain.ItemStatusSold,
	}
}

func (p *Projector) displayPrice(item domain.Item, locale string) string {
	if item.Status == domain.ItemStatusSold {
		return p.translator.T(locale, soldLabelKey)
	}
	return FormatPrice(item.Price, item.Currency, locale)
}

func (p *Projector) imageURL(item domain.Item) string {
	if len(item.Images) > 0 && strings.TrimSpace(item.Images[0]) != "" {
		return item.Images[0]
	}
	return p.placeholder
}

// detailLink deterministically encodes the item id and active locale so a
// collaborator can navigate to the item detail page.
func (p *Projector) detailLink(itemID, locale string) string {
	link := p.detailPath + "/" + url.PathEscape(itemID)
	if locale != "" {
		link += "?lang=" + url.QueryEscape(locale)
	}
	return link
}

// FormatPrice renders the amount using the locale's number-formatting
// conventions and the item's ISO 4217 currency. Unknown currencies or
// locales degrade to a plain "CODE amount" rendering rather than failing.
func FormatPrice(amount float64, currencyCode, locale string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%s %.2f", code, amount))
	}

	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}

	printer := message.NewPrinter(tag)
	return printer.Sprint(currency.Symbol(unit.Amount(amount)))
}
