// Package catalog turns the product table into the ordered list shoppers
// browse. Everything here is pure and recomputed from scratch whenever the
// criteria change.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/safar/armigera-store/internal/models"
	"github.com/shopspring/decimal"
)

// All disables a category or artist selection.
const All = "all"

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
)

var ErrUnknownSort = errors.New("unknown sort key")

// SortKeys lists the accepted keys in display order.
var SortKeys = []SortKey{SortNewest, SortPriceLow, SortPriceHigh, SortPopular}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
	return k, nil
}

// Criteria is a shopper's selection. Empty category and artist selections
// behave like All, and nil price bounds are open.
type Criteria struct {
	Categories []string
	Artist     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       SortKey
}

// Query returns the active products matching c, sorted by c.Sort. Ties keep
// their input order. The input slice is not modified.
func Query(products []models.Product, c Criteria) []models.Product {
	cats := selection(c.Categories)
	artist := Normalize(c.Artist)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Status != models.ProductActive {
			continue
		}
		if cats != nil && !cats[Normalize(p.Category)] {
			continue
		}
		if artist != "" && artist != All && Normalize(p.Artist) != artist {
			continue
		}
		if !inRange(p.Price, c.MinPrice, c.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	Sort(out, c.Sort)
	return out
}

// selection returns the normalized category set, or nil when every category
// is selected.
func selection(categories []string) map[string]bool {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		n := Normalize(c)
		if n == All {
			return nil
		}
		set[n] = true
	}
	return set
}

func inRange(price decimal.Decimal, lo, hi *decimal.Decimal) bool {
	floor := decimal.Zero
	if lo != nil {
		floor = *lo
	}
	if price.LessThan(floor) {
		return false
	}
	return hi == nil || price.LessThanOrEqual(*hi)
}

// Sort orders products in place by key. Unknown keys sort newest first.
func Sort(products []models.Product, key SortKey) {
	var cmp func(a, b models.Product) int
	switch key {
	case SortPriceLow:
		cmp = func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		cmp = func(a, b models.Product) int { return b.Price.Cmp(a.Price) }
	case SortPopular:
		cmp = func(a, b models.Product) int { return b.Views - a.Views }
	default:
		cmp = func(a, b models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(products, cmp)
}
