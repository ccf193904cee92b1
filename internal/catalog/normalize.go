package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jasurbekn/narxly/internal/config"
	"github.com/jasurbekn/narxly/internal/ingest"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// Marketplace title boilerplate, in Latin-script Uzbek, Cyrillic, and the
// common scraper typos ("smarton", "cmartfon"). Stripped from both the
// grouping key and the display name.
var (
	boilerplatePrefix = regexp.MustCompile(
		`(?i)^[/\s\-]*(смартфон|smartfon|smarton|telefon|cmartfon|phone|[сc]\s*мартфон|smartfoni)\b`,
	)
	boilerplateSuffix = regexp.MustCompile(
		`(?i)\b(smartfoni|smartfon|smarton|telefon|phone|pct|rasmiy mahsulot|sovg'aga|sovg'a|oq sim kartasi|sim karta)\b.*$`,
	)
	punctuation = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	whitespace  = regexp.MustCompile(`\s+`)

	displayPrefix   = regexp.MustCompile(`(?i)^[/\s\-]*(смартфон|smartfon|smarton|telefon|cmartfon|cmartfonlar|smartfonlar|[сc]\s*мартфон)\s+([сc]\s+ии\b)?`)
	displaySmartfon = regexp.MustCompile(`(?i)\s+smartfoni.*$`)
	displayPCT      = regexp.MustCompile(`(?i)\s+PCT.*$`)
	displayBundle   = regexp.MustCompile(`\s+\+.*$`)
	displaySlash    = regexp.MustCompile(`^\s*/\s*`)

	nonPrice = regexp.MustCompile(`[^\d.]`)
)

// installmentMarkers flag price strings that carry a monthly installment
// amount ("150 000 /oyiga", "12 x 265 000") instead of the real price.
var installmentMarkers = []string{"/oyiga", "oyiga", " x "}

// knownMarkets maps lower-cased market identifiers to their canonical
// display names.
var knownMarkets = map[string]string{
	"uzum":        "Uzum",
	"wildberries": "Wildberries",
	"olcha":       "Olcha",
	"asaxiy":      "Asaxiy",
}

// stripMarks removes combining diacritical marks so Latin-script Uzbek
// variants collate onto one key.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer turns raw CSV rows into normalized listings. Rows that fail
// required-field extraction or the price floor are skipped, never errors:
// the pipeline optimizes for maximum yield from dirty data.
type Normalizer struct {
	classifier *Classifier
	pricing    config.PricingConfig
}

// NewNormalizer creates a Normalizer with the given classifier and price
// floor table.
func NewNormalizer(classifier *Classifier, pricing config.PricingConfig) *Normalizer {
	return &Normalizer{classifier: classifier, pricing: pricing}
}

// Normalize derives a listing from one raw row and its source filename.
// The second return is false when the row is rejected (missing title or
// price below the category floor).
func (n *Normalizer) Normalize(row ingest.RawRow, filename string) (domain.Listing, bool) {
	title := row.Get("title", "product_name", "name")
	if title == "" {
		return domain.Listing{}, false
	}

	market := marketFor(row, filename)
	url := resolveURL(row.Get("url", "link", "product_url"), market)

	category := domain.ParseCategory(row["category"])
	if category == "" {
		category = n.classifier.Classify(title, url, filename)
	}

	price := cleanPrice(row)

	if price < n.pricing.FloorFor(category) && category != domain.CategoryGroceries {
		return domain.Listing{}, false
	}

	return domain.Listing{
		Title:    displayName(title),
		GroupKey: GroupKey(title, category),
		Category: category,
		Price:    price,
		Market:   market,
		URL:      url,
		ImageURL: row["image_url"],
		Rating:   parsePrice(row["rating"]),
		Reviews:  parseInt(row.Get("review_count", "reviews")),
	}, true
}

// GroupKey heavily normalizes a title into the string used to decide that
// two listings refer to the same product. Never displayed. Degenerate
// results (< 3 runes) get a category-scoped synthetic key so unrelated
// short titles do not merge into one bucket.
func GroupKey(title string, category domain.Category) string {
	key := strings.ToLower(title)

	if stripped, _, err := transform.String(stripMarks, key); err == nil {
		key = stripped
	}

	key = boilerplatePrefix.ReplaceAllString(key, "")
	key = boilerplateSuffix.ReplaceAllString(key, "")
	key = punctuation.ReplaceAllString(key, " ")
	key = whitespace.ReplaceAllString(key, " ")
	key = strings.TrimSpace(key)

	if len([]rune(key)) < 3 {
		key = strings.ToLower(string(category)) + "-" + key
	}
	return key
}

// displayName lightly cleans a raw title for display: boilerplate prefixes,
// trailing "smartfoni"/"PCT"/bundle fragments, and a leading slash.
func displayName(title string) string {
	name := displayPrefix.ReplaceAllString(title, "")
	name = displaySmartfon.ReplaceAllString(name, "")
	name = displayPCT.ReplaceAllString(name, "")
	name = displayBundle.ReplaceAllString(name, "")
	name = displaySlash.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// cleanPrice extracts the canonical price from a row. Strings carrying an
// installment marker hold a monthly amount, not the price, so the old_price
// column is used instead. Unparseable values yield 0.
func cleanPrice(row ingest.RawRow) float64 {
	raw := row.Get("actual_price", "price")

	if hasInstallmentMarker(raw) {
		raw = row["old_price"]
	}

	return parsePrice(raw)
}

func hasInstallmentMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range installmentMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func parsePrice(raw string) float64 {
	cleaned := nonPrice.ReplaceAllString(strings.ReplaceAll(raw, " ", ""), "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseInt(raw string) int {
	cleaned := nonPrice.ReplaceAllString(raw, "")
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i]
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// marketFor resolves the market name from explicit row fields, falling
// back to the filename's leading token ("uzum-products.csv" -> "Uzum").
// Aggregated exports named after a category map to the generic "market"
// source rather than a marketplace.
func marketFor(row ingest.RawRow, filename string) string {
	source := row.Get("store", "market", "source")
	if source == "" {
		base := strings.TrimSuffix(strings.ToLower(filename), ".csv")
		base = strings.TrimSuffix(base, "_products")
		base = strings.TrimSuffix(base, "-products")
		if tokens := strings.FieldsFunc(base, func(r rune) bool {
			return r == '-' || r == '_'
		}); len(tokens) > 0 {
			source = tokens[0]
		}
		if source == "smartphones" {
			source = "market"
		}
	}
	return canonicalMarket(source)
}

func canonicalMarket(source string) string {
	lower := strings.ToLower(strings.TrimSpace(source))
	if lower == "" {
		return "Unknown"
	}
	if display, ok := knownMarkets[lower]; ok {
		return display
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// resolveURL rewrites known-source relative URLs to absolute ones.
func resolveURL(url, market string) string {
	if url == "" {
		return "#"
	}
	if market == "Uzum" && strings.HasPrefix(url, "/") {
		return "https://uzum.uz" + url
	}
	return url
}
