package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jasurbekn/narxly/internal/catalog"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProductsTable(products []domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tCATEGORY\tPRICE\tSOURCE\tOFFERS\n")
	for i := range products {
		tw.writef("%s\t%s\t%s\t%s\t%s\t%d\n",
			products[i].ID,
			truncate(products[i].Name, 40),
			products[i].Category,
			formatPrice(products[i].Price),
			products[i].Source,
			len(products[i].Offers),
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Category:\t%s\n", p.Category)
	tw.writef("Price:\t%s\n", formatPrice(p.Price))
	tw.writef("Source:\t%s\n", p.Source)
	tw.writef("URL:\t%s\n", p.URL)
	tw.writef("Rating:\t%.1f (%d reviews)\n", p.Rating, p.Reviews)
	tw.writef("Offers:\n")
	for _, o := range p.Offers {
		tw.writef("\t%s\t%s\t%s\n", o.Market, formatPrice(o.Price), o.URL)
	}
	return tw.finish()
}

func printCategoriesTable(categories []catalog.CategoryCount) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("CATEGORY\tPRODUCTS\n")
	for _, c := range categories {
		tw.writef("%s\t%d\n", c.Category, c.Count)
	}
	return tw.finish()
}

// formatPrice renders a sum price with thousands separators, e.g.
// "2 450 000". Prices are whole sums; fractional parts are dropped.
func formatPrice(p float64) string {
	if p <= 0 {
		return "-"
	}

	digits := fmt.Sprintf("%.0f", p)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, d)
	}
	return string(out)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
