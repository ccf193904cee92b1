// Package domain defines the core business types for the narxly catalog.
package domain

import "strings"

// Category is the product category a listing is classified into.
type Category string

// Category constants. Display values match the storefront vocabulary.
const (
	CategorySmartphones  Category = "Smartphones"
	CategoryLaptops      Category = "Laptops"
	CategoryTablets      Category = "Tablets"
	CategoryTVAudio      Category = "TV & Audio"
	CategorySmartwatches Category = "Smartwatches"
	CategoryAudio        Category = "Audio"
	CategoryAccessories  Category = "Accessories"
	CategoryAppliances   Category = "Appliances"
	CategoryGroceries    Category = "Groceries"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategorySmartphones,
	CategoryLaptops,
	CategoryTablets,
	CategoryTVAudio,
	CategorySmartwatches,
	CategoryAudio,
	CategoryAccessories,
	CategoryAppliances,
	CategoryGroceries,
}

// ParseCategory maps a raw category string to a known Category,
// case-insensitively. Unknown non-empty values are title-cased so explicit
// category columns in source files survive verbatim.
func ParseCategory(raw string) Category {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}
	if trimmed == "" {
		return ""
	}
	return Category(strings.ToUpper(trimmed[:1]) + strings.ToLower(trimmed[1:]))
}

// Listing is one normalized row of scraped marketplace data: a single
// offer for a product on a single market.
type Listing struct {
	Title    string   `json:"title"`
	GroupKey string   `json:"group_key"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Market   string   `json:"market"`
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url,omitempty"`

	// Optional source-provided quality signals. Zero means absent.
	Rating  float64 `json:"rating,omitempty"`
	Reviews int     `json:"reviews,omitempty"`
}

// Offer is one market's price for a canonical product.
type Offer struct {
	Market string  `json:"source"`
	Price  float64 `json:"price"`
	URL    string  `json:"url"`
}

// Product is the deduplicated, merged representation of one real-world
// product across markets. Price, URL, and Source are derived from Offers
// during finalization and never stored independently.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Rating   float64  `json:"rating"`
	Reviews  int      `json:"reviews"`
	Images   []string `json:"images,omitempty"`
	Image    string   `json:"image,omitempty"`
	InStock  bool     `json:"inStock"`
	Offers   []Offer  `json:"markets"`

	// Derived display fields, recomputed from Offers.
	Price  float64 `json:"price"`
	URL    string  `json:"url"`
	Source string  `json:"source"`
}

// BestOffer returns the offer with the lowest positive price, ties broken
// by position in the Offers slice. Nil when no offer has a positive price.
func (p *Product) BestOffer() *Offer {
	var best *Offer
	for i := range p.Offers {
		o := &p.Offers[i]
		if o.Price <= 0 {
			continue
		}
		if best == nil || o.Price < best.Price {
			best = o
		}
	}
	return best
}

// OfferFor returns the offer stored for the given market,
// case-insensitively, or nil.
func (p *Product) OfferFor(market string) *Offer {
	for i := range p.Offers {
		if strings.EqualFold(p.Offers[i].Market, market) {
			return &p.Offers[i]
		}
	}
	return nil
}
