package catalog

import (
	"encoding/base64"
	"hash/fnv"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "github.com/jasurbekn/narxly/pkg/types"
)

const (
	idPrefix = "prod-"
	idLength = 16
)

// ProductID derives the stable catalog id for a group key. The id depends
// only on the key string, never on insertion order, timestamps, or which
// file contributed the key first, so storefront deep links survive
// rebuilds.
func ProductID(groupKey string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(groupKey))

	var b strings.Builder
	for _, r := range encoded {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == idLength {
			break
		}
	}
	return idPrefix + b.String()
}

// Merge folds one listing into a product. A nil existing product creates
// the group; otherwise the listing's image and offer are merged in. The
// per-market rule: at most one offer per market, and a stored offer is
// replaced only by a strictly lower positive price, so later noisier rows
// never overwrite a good earlier price.
func Merge(existing *domain.Product, l domain.Listing) *domain.Product {
	if existing == nil {
		existing = newProduct(l)
	}

	if l.ImageURL != "" && !slices.Contains(existing.Images, l.ImageURL) {
		existing.Images = append(existing.Images, l.ImageURL)
	}

	if offer := existing.OfferFor(l.Market); offer != nil {
		if l.Price > 0 && l.Price < offer.Price {
			offer.Price = l.Price
			offer.URL = l.URL
		}
	} else {
		existing.Offers = append(existing.Offers, domain.Offer{
			Market: l.Market,
			Price:  l.Price,
			URL:    l.URL,
		})
	}

	return existing
}

func newProduct(l domain.Listing) *domain.Product {
	id := ProductID(l.GroupKey)

	rating := l.Rating
	if rating <= 0 {
		rating = pseudoRating(id)
	}
	reviews := l.Reviews
	if reviews <= 0 {
		reviews = pseudoReviews(id)
	}

	p := &domain.Product{
		ID:       id,
		Name:     l.Title,
		Category: l.Category,
		Rating:   rating,
		Reviews:  reviews,
		InStock:  true,
	}
	if l.ImageURL != "" {
		p.Images = []string{l.ImageURL}
	}
	return p
}

// pseudoRating derives a stable placeholder rating in [4.0, 4.9] from the
// product id. Hash-based rather than random so repeated builds from the
// same input are bit-for-bit identical.
func pseudoRating(id string) float64 {
	return 4.0 + float64(hash(id)%10)/10
}

// pseudoReviews derives a stable placeholder review count in [5, 54].
func pseudoReviews(id string) int {
	return 5 + int(hash(id+"#reviews")%50)
}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Finalize recomputes a product's derived display fields from its offers.
// Offers are stably sorted ascending by price, so the first positive-price
// offer is the display offer; market-discovery order breaks ties. Products
// with no positive offer display price 0 and source "Unknown".
func Finalize(p *domain.Product) {
	sort.SliceStable(p.Offers, func(i, j int) bool {
		return p.Offers[i].Price < p.Offers[j].Price
	})

	if len(p.Images) > 0 {
		p.Image = p.Images[0]
	} else {
		p.Image = fallbackImage(p.Category, p.Name, p.ID)
	}

	if best := p.BestOffer(); best != nil {
		p.Price = best.Price
		p.URL = best.URL
		p.Source = best.Market
		return
	}

	p.Price = 0
	p.URL = "#"
	p.Source = "Unknown"
}

// SortProducts orders the finalized catalog by locale-aware name, with
// price and id as tie-breakers, so pagination is stable across repeated
// requests against the same input files.
func SortProducts(products []domain.Product) {
	c := collate.New(language.Und, collate.Loose)
	sort.SliceStable(products, func(i, j int) bool {
		if cmp := c.CompareString(products[i].Name, products[j].Name); cmp != 0 {
			return cmp < 0
		}
		if products[i].Price != products[j].Price {
			return products[i].Price < products[j].Price
		}
		return products[i].ID < products[j].ID
	})
}
