package catalog

import (
	"github.com/safar/armigera-store/internal/models"
	"github.com/shopspring/decimal"
)

// Option is one selectable filter value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Categories is the gallery's fixed category list.
var Categories = []Option{
	{Value: "landscapes", Label: "Landscapes"},
	{Value: "portraits", Label: "Portraits"},
	{Value: "still-life", Label: "Still life"},
	{Value: "sacred-art", Label: "Sacred art"},
	{Value: "children", Label: "Children"},
	{Value: "icons", Label: "Icons"},
	{Value: "realism", Label: "Realism"},
	{Value: "nude-style", Label: "Nude style"},
}

var (
	defaultMinPrice = decimal.Zero
	defaultMaxPrice = decimal.NewFromInt(1000)
)

// CategoryCounts returns "all" followed by every known category with the
// number of products in it. Categories found on products but missing from
// the fixed list are appended in first-seen order.
func CategoryCounts(products []models.Product) []Option {
	counts := make(map[string]int)
	var extra []Option
	known := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		known[c.Value] = true
	}

	for _, p := range products {
		n := Normalize(p.Category)
		if n == "" {
			continue
		}
		if counts[n] == 0 && !known[n] {
			extra = append(extra, Option{Value: n, Label: p.Category})
		}
		counts[n]++
	}

	out := make([]Option, 0, len(Categories)+len(extra)+1)
	out = append(out, Option{Value: All, Label: "All categories", Count: len(products)})
	for _, c := range append(append([]Option(nil), Categories...), extra...) {
		c.Count = counts[c.Value]
		out = append(out, c)
	}
	return out
}

// Artists returns "all" followed by each distinct artist in first-seen
// order, keyed by normalized name.
func Artists(products []models.Product) []Option {
	out := []Option{{Value: All, Label: "All artists", Count: len(products)}}
	index := make(map[string]int)
	for _, p := range products {
		n := Normalize(p.Artist)
		if n == "" {
			continue
		}
		if i, ok := index[n]; ok {
			out[i].Count++
			continue
		}
		index[n] = len(out)
		out = append(out, Option{Value: n, Label: p.Artist, Count: 1})
	}
	return out
}

// PriceBounds returns the lowest and highest price, or 0 and 1000 for an
// empty list.
func PriceBounds(products []models.Product) (lo, hi decimal.Decimal) {
	if len(products) == 0 {
		return defaultMinPrice, defaultMaxPrice
	}
	lo, hi = products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return lo, hi
}
