package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasurbekn/narxly/internal/config"
	"github.com/jasurbekn/narxly/internal/ingest"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

func testPricing() config.PricingConfig {
	return config.PricingConfig{DefaultFloor: 5000}
}

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return NewNormalizer(defaultClassifier(t), testPricing())
}

func TestNormalize_TitleFallbackChain(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	t.Run("product_name used when title empty", func(t *testing.T) {
		t.Parallel()

		listing, ok := n.Normalize(ingest.RawRow{
			"title":        "",
			"product_name": "Coffee Maker",
			"price":        "450000",
		}, "uzum-products.csv")

		require.True(t, ok)
		assert.Equal(t, "Coffee Maker", listing.Title)
	})

	t.Run("row dropped when every title field empty", func(t *testing.T) {
		t.Parallel()

		_, ok := n.Normalize(ingest.RawRow{"price": "450000"}, "uzum-products.csv")
		assert.False(t, ok)
	})
}

func TestNormalize_PriceCleaning(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	tests := []struct {
		name string
		row  ingest.RawRow
		want float64
	}{
		{
			name: "spaces and currency stripped",
			row:  ingest.RawRow{"title": "Redmi Note 12", "price": "2 500 000 so'm"},
			want: 2500000,
		},
		{
			name: "actual_price preferred over price",
			row:  ingest.RawRow{"title": "Redmi Note 12", "actual_price": "2400000", "price": "2500000"},
			want: 2400000,
		},
		{
			name: "installment marker falls back to old_price",
			row: ingest.RawRow{
				"title":     "Redmi Note 12",
				"price":     "150 000 / oyiga",
				"old_price": "3 200 000",
			},
			want: 3200000,
		},
		{
			name: "multiplication pattern falls back to old_price",
			row: ingest.RawRow{
				"title":     "Redmi Note 12",
				"price":     "12 x 265 000",
				"old_price": "2 900 000",
			},
			want: 2900000,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			listing, ok := n.Normalize(tt.row, "uzum-products.csv")
			require.True(t, ok)
			assert.Equal(t, tt.want, listing.Price)
		})
	}

	t.Run("unparseable price rejected by floor", func(t *testing.T) {
		t.Parallel()

		// Price parses to 0, which is below the smartphone floor.
		_, ok := n.Normalize(ingest.RawRow{"title": "Redmi Note 12", "price": "so'rang"}, "uzum-products.csv")
		assert.False(t, ok)
	})
}

func TestNormalize_PriceFloorBoundaries(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	tests := []struct {
		name  string
		price string
		want  bool
	}{
		{name: "one unit below floor rejected", price: "4999", want: false},
		{name: "exactly at floor retained", price: "5000", want: true},
		{name: "one unit above floor retained", price: "5001", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := n.Normalize(ingest.RawRow{"title": "USB kabel 1m", "price": tt.price}, "uzum-products.csv")
			assert.Equal(t, tt.want, ok)
		})
	}

	t.Run("groceries bypass the floor", func(t *testing.T) {
		t.Parallel()

		listing, ok := n.Normalize(
			ingest.RawRow{"title": "Non 400g", "price": "3500"},
			"grocery-products.csv",
		)
		require.True(t, ok)
		assert.Equal(t, domain.CategoryGroceries, listing.Category)
		assert.Equal(t, 3500.0, listing.Price)
	})

	t.Run("per-category floor overrides default", func(t *testing.T) {
		t.Parallel()

		pricing := config.PricingConfig{
			DefaultFloor: 5000,
			Floors:       map[string]float64{"Smartphones": 500000},
		}
		strict := NewNormalizer(defaultClassifier(t), pricing)

		// 128/256 parsed out of a spec string is a classic mis-parse.
		_, ok := strict.Normalize(
			ingest.RawRow{"title": "Redmi Note 12", "price": "128256"},
			"uzum-products.csv",
		)
		assert.False(t, ok)
	})
}

func TestNormalize_MarketResolution(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	tests := []struct {
		name     string
		row      ingest.RawRow
		filename string
		want     string
	}{
		{
			name:     "store field wins",
			row:      ingest.RawRow{"title": "Redmi Note 12", "price": "2500000", "store": "wildberries"},
			filename: "uzum-products.csv",
			want:     "Wildberries",
		},
		{
			name:     "filename leading token",
			row:      ingest.RawRow{"title": "Redmi Note 12", "price": "2500000"},
			filename: "uzum-products.csv",
			want:     "Uzum",
		},
		{
			name:     "underscore separator",
			row:      ingest.RawRow{"title": "Redmi Note 12", "price": "2500000"},
			filename: "olcha_products.csv",
			want:     "Olcha",
		},
		{
			name:     "category-named export maps to generic market",
			row:      ingest.RawRow{"title": "Redmi Note 12", "price": "2500000"},
			filename: "smartphones-products.csv",
			want:     "Market",
		},
		{
			name:     "unknown market title-cased",
			row:      ingest.RawRow{"title": "Redmi Note 12", "price": "2500000", "source": "SELLO"},
			filename: "misc.csv",
			want:     "Sello",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			listing, ok := n.Normalize(tt.row, tt.filename)
			require.True(t, ok)
			assert.Equal(t, tt.want, listing.Market)
		})
	}
}

func TestNormalize_URLResolution(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	t.Run("relative uzum url rewritten to absolute", func(t *testing.T) {
		t.Parallel()

		listing, ok := n.Normalize(ingest.RawRow{
			"title": "Redmi Note 12",
			"price": "2500000",
			"url":   "/product/redmi-note-12",
		}, "uzum-products.csv")

		require.True(t, ok)
		assert.Equal(t, "https://uzum.uz/product/redmi-note-12", listing.URL)
	})

	t.Run("missing url becomes placeholder", func(t *testing.T) {
		t.Parallel()

		listing, ok := n.Normalize(
			ingest.RawRow{"title": "Redmi Note 12", "price": "2500000"},
			"wildberries-products.csv",
		)
		require.True(t, ok)
		assert.Equal(t, "#", listing.URL)
	})

	t.Run("link fallback used", func(t *testing.T) {
		t.Parallel()

		listing, ok := n.Normalize(ingest.RawRow{
			"title": "Redmi Note 12",
			"price": "2500000",
			"link":  "https://wb.example/p/9",
		}, "wildberries-products.csv")

		require.True(t, ok)
		assert.Equal(t, "https://wb.example/p/9", listing.URL)
	})
}

func TestNormalize_ExplicitCategoryWins(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	listing, ok := n.Normalize(ingest.RawRow{
		"title":    "Noutbuk Lenovo IdeaPad", // keyword says laptop
		"price":    "4500000",
		"category": "tablets",
	}, "uzum-products.csv")

	require.True(t, ok)
	assert.Equal(t, domain.CategoryTablets, listing.Category)
}

func TestGroupKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "boilerplate prefix stripped",
			title: "Smartfon Redmi Note 12 128GB",
			want:  "redmi note 12 128gb",
		},
		{
			name:  "cyrillic prefix stripped",
			title: "Смартфон Redmi Note 12 128GB",
			want:  "redmi note 12 128gb",
		},
		{
			name:  "suffix boilerplate and everything after removed",
			title: "Redmi Note 12 128GB sovg'a bilan",
			want:  "redmi note 12 128gb",
		},
		{
			name:  "punctuation collapses to spaces",
			title: "Redmi-Note_12 (128GB)",
			want:  "redmi note 12 128gb",
		},
		{
			name:  "memory size survives normalization",
			title: "Smartfon Samsung Galaxy A54 256GB",
			want:  "samsung galaxy a54 256gb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GroupKey(tt.title, domain.CategorySmartphones))
		})
	}

	t.Run("same product from different markets shares a key", func(t *testing.T) {
		t.Parallel()

		a := GroupKey("Smartfon Redmi Note 12 128GB", domain.CategorySmartphones)
		b := GroupKey("Redmi Note 12 128GB smartfoni PCT", domain.CategorySmartphones)
		assert.Equal(t, a, b)
	})

	t.Run("degenerate title gets category-scoped key", func(t *testing.T) {
		t.Parallel()

		key := GroupKey("Smartfon", domain.CategorySmartphones)
		assert.Equal(t, "smartphones-", key)
	})

	t.Run("degenerate keys differ across categories", func(t *testing.T) {
		t.Parallel()

		a := GroupKey("X", domain.CategorySmartphones)
		b := GroupKey("X", domain.CategoryGroceries)
		assert.NotEqual(t, a, b)
	})
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "prefix removed",
			title: "Smartfon Redmi Note 12 128GB",
			want:  "Redmi Note 12 128GB",
		},
		{
			name:  "trailing smartfoni removed",
			title: "Redmi Note 12 smartfoni 128GB",
			want:  "Redmi Note 12",
		},
		{
			name:  "bundle tail removed",
			title: "Redmi Note 12 + chehol sovg'aga",
			want:  "Redmi Note 12",
		},
		{
			name:  "leading slash removed",
			title: "/ Redmi Note 12",
			want:  "Redmi Note 12",
		},
		{
			name:  "clean title untouched",
			title: "Samsung Galaxy A54 256GB",
			want:  "Samsung Galaxy A54 256GB",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, displayName(tt.title))
		})
	}
}

func TestNormalize_RatingAndReviews(t *testing.T) {
	t.Parallel()

	n := testNormalizer(t)

	listing, ok := n.Normalize(ingest.RawRow{
		"title":        "Redmi Note 12",
		"price":        "2500000",
		"rating":       "4.7",
		"review_count": "134",
	}, "uzum-products.csv")

	require.True(t, ok)
	assert.Equal(t, 4.7, listing.Rating)
	assert.Equal(t, 134, listing.Reviews)
}
