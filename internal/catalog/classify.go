package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jasurbekn/narxly/internal/config"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// Rule is one classification rule: a pattern matched against the
// lower-cased title (and URL when MatchURL is set).
type Rule struct {
	Pattern  *regexp.Regexp
	Category domain.Category
	MatchURL bool
}

// Classifier assigns a category to a listing via an ordered rule table,
// first match wins. The source marketplaces mix Uzbek (Latin and Cyrillic),
// Russian, and English in titles, so patterns carry all three vocabularies.
type Classifier struct {
	rules    []Rule
	fallback domain.Category
}

// defaultRules is the built-in rule table. Order matters: only the first
// matching rule fires.
var defaultRules = []Rule{
	{
		Pattern:  regexp.MustCompile(`noutbuk|laptop|ноутбук`),
		Category: domain.CategoryLaptops,
		MatchURL: true,
	},
	{
		Pattern:  regexp.MustCompile(`televizor|televizory|телевизор|\btv\b`),
		Category: domain.CategoryTVAudio,
		MatchURL: true,
	},
	{
		Pattern:  regexp.MustCompile(`planshet|tablet|планшет|ipad|\bpad\b`),
		Category: domain.CategoryTablets,
		MatchURL: true,
	},
	{
		Pattern:  regexp.MustCompile(`\b(soat|watch|smartwatch|часы)\b`),
		Category: domain.CategorySmartwatches,
	},
	{
		Pattern:  regexp.MustCompile(`\b(quloqchin|earbuds|airpods|headphone|buds|наушники)\b`),
		Category: domain.CategoryAudio,
	},
	{
		Pattern:  regexp.MustCompile(`\b(kabel|cable|chehol|case|g'ilof|adapter|zaryad|charger|чехол|кабель)\b`),
		Category: domain.CategoryAccessories,
	},
	{
		Pattern: regexp.MustCompile(
			`multivarka|konditsioner|pylesos|changyutgich|sovutgich|holodilnik|холодильник|kir yuvish|mashinasi|gaz plita|mikrovoln`,
		),
		Category: domain.CategoryAppliances,
	},
}

// NewClassifier builds a Classifier from configured rules, falling back to
// the built-in table when no rules are configured.
func NewClassifier(cfg config.ClassifyConfig, fallback domain.Category) (*Classifier, error) {
	if fallback == "" {
		fallback = domain.CategorySmartphones
	}

	if len(cfg.Rules) == 0 {
		return &Classifier{rules: defaultRules, fallback: fallback}, nil
	}

	rules := make([]Rule, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling classify rule %d (%q): %w", i, r.Pattern, err)
		}
		rules = append(rules, Rule{
			Pattern:  re,
			Category: domain.ParseCategory(r.Category),
			MatchURL: r.MatchURL,
		})
	}

	return &Classifier{rules: rules, fallback: fallback}, nil
}

// Classify determines the category for a listing. Priority order: filename
// grocery hint, then the rule table over title and URL, then the run's
// fallback category. Explicit category columns are handled by the caller
// before classification. Deterministic: only the first matching rule fires.
func (c *Classifier) Classify(title, url, filename string) domain.Category {
	lowerTitle := strings.ToLower(title)
	lowerURL := strings.ToLower(url)
	lowerFile := strings.ToLower(filename)

	if strings.Contains(lowerFile, "grocery") || strings.Contains(lowerFile, "oziq") {
		return domain.CategoryGroceries
	}

	for _, r := range c.rules {
		if r.Pattern.MatchString(lowerTitle) {
			return r.Category
		}
		if r.MatchURL && r.Pattern.MatchString(lowerURL) {
			return r.Category
		}
	}

	return c.fallback
}

// Fallback returns the category assigned when no rule matches.
func (c *Classifier) Fallback() domain.Category {
	return c.fallback
}
