package catalog

import (
	"strings"

	domain "github.com/jasurbekn/narxly/pkg/types"
)

// fallbackImages maps categories to stock photo URLs used when an export
// carries no image_url. Categories without an entry use the smartphone set.
var fallbackImages = map[domain.Category][]string{
	domain.CategorySmartphones: {
		"https://images.unsplash.com/photo-1580910051074-3eb694886505?w=800&q=80",
		"https://images.unsplash.com/photo-1510557880182-3d4d3cba35a5?w=800&q=80",
		"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800&q=80",
		"https://images.unsplash.com/photo-1616348436168-de43ad0db179?w=800&q=80",
		"https://images.unsplash.com/photo-1523206489230-c012c64b2b48?w=800&q=80",
		"https://images.unsplash.com/photo-1512499617640-c74ae3a79d37?w=800&q=80",
	},
	domain.CategoryGroceries: {
		"https://images.unsplash.com/photo-1542838132-92c53300491e?w=800&q=80",
		"https://images.unsplash.com/photo-1506484381205-f7945653044d?w=800&q=80",
		"https://images.unsplash.com/photo-1543168256-418811576931?w=800&q=80",
	},
	domain.CategoryLaptops: {
		"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=800&q=80",
		"https://images.unsplash.com/photo-1517336712691-4c9932a3168d?w=800&q=80",
	},
	domain.CategoryTVAudio: {
		"https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=800&q=80",
		"https://images.unsplash.com/photo-1558888401-3cc1de77652d?w=800&q=80",
	},
	domain.CategoryTablets: {
		"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=800&q=80",
		"https://images.unsplash.com/photo-1561154464-82e9adf32764?w=800&q=80",
	},
	domain.CategoryAppliances: {
		"https://images.unsplash.com/photo-1584622650111-993a426fbf0a?w=800&q=80",
		"https://images.unsplash.com/photo-1574269909862-7e1d70bb8078?w=800&q=80",
	},
	domain.CategoryAccessories: {
		"https://images.unsplash.com/photo-1546868871-7041f2a55e12?w=800&q=80",
		"https://images.unsplash.com/photo-1589492477829-5e65395b66cc?w=800&q=80",
	},
}

// fallbackImage picks a stock image for a product without one. Well-known
// brands get a fixed pick; everything else indexes its category's list by a
// hash of the product id, so the choice is stable across rebuilds.
func fallbackImage(category domain.Category, name, id string) string {
	list, ok := fallbackImages[category]
	if !ok {
		list = fallbackImages[domain.CategorySmartphones]
	}

	lower := strings.ToLower(name)
	switch category {
	case domain.CategorySmartphones:
		switch {
		case strings.Contains(lower, "iphone"):
			return fallbackImages[domain.CategorySmartphones][4]
		case strings.Contains(lower, "samsung"):
			return fallbackImages[domain.CategorySmartphones][0]
		case strings.Contains(lower, "redmi"), strings.Contains(lower, "xiaomi"):
			return fallbackImages[domain.CategorySmartphones][1]
		}
	case domain.CategoryLaptops:
		if strings.Contains(lower, "macbook") {
			return fallbackImages[domain.CategoryLaptops][1]
		}
	}

	var sum int
	for _, b := range []byte(id) {
		sum += int(b)
	}
	return list[sum%len(list)]
}
