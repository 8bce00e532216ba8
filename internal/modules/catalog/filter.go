package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MatchMode selects how multiple selected categories combine.
type MatchMode string

const (
	MatchAll MatchMode = "all"
	MatchAny MatchMode = "any"
)

func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(s)) {
	case MatchAll:
		return MatchAll, nil
	case MatchAny:
		return MatchAny, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMatchMode, s)
}

// SortKey names an ordering of the filtered result.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
	SortSixMonth  SortKey = "sixMonth"
	SortOneYear   SortKey = "oneYear"
	SortLifetime  SortKey = "lifetime"
	SortDevices   SortKey = "devices"
)

var sortKeys = []SortKey{SortRelevance, SortName, SortPriceAsc, SortPriceDesc, SortSixMonth, SortOneYear, SortLifetime, SortDevices}

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Query is the full input of the filter/sort engine.
type Query struct {
	Text         string
	Categories   []string
	Match        MatchMode
	Sort         SortKey
	Desc         bool
	OnlyLifetime bool
}

// Filter returns the products matching q, ordered by q.Sort. The input slice is not modified.
// Products missing the price a key sorts by are placed as if priced at +∞.
func Filter(products []*Product, q Query) []*Product {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if text != "" && !strings.Contains(searchBag(p), text) {
			continue
		}
		if q.OnlyLifetime && p.Prices.Lifetime == nil {
			continue
		}
		if !matchesCategories(p, q.Categories, q.Match) {
			continue
		}
		out = append(out, p)
	}

	less := lessFunc(q.Sort, q.Desc)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func searchBag(p *Product) string {
	return strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Categories, " "))
}

func matchesCategories(p *Product, selected []string, mode MatchMode) bool {
	if len(selected) == 0 {
		return true
	}
	if mode == MatchAny {
		for _, c := range selected {
			if p.HasCategory(c) {
				return true
			}
		}
		return false
	}
	for _, c := range selected {
		if !p.HasCategory(c) {
			return false
		}
	}
	return true
}

// priceKey returns the value to sort on and false when it counts as +∞.
type priceKey func(p *Product) (decimal.Decimal, bool)

func planKey(plan Plan) priceKey {
	return func(p *Product) (decimal.Decimal, bool) { return p.PlanPrice(plan) }
}

func minPriceKey(p *Product) (decimal.Decimal, bool) { return p.MinPrice() }

func lessFunc(key SortKey, desc bool) func(a, b *Product) bool {
	switch key {
	case SortName:
		return func(a, b *Product) bool {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if desc {
				return bn < an
			}
			return an < bn
		}
	case SortPriceAsc:
		return byPrice(minPriceKey, false)
	case SortPriceDesc:
		return byPrice(minPriceKey, true)
	case SortSixMonth:
		return byPrice(planKey(PlanSixMonth), desc)
	case SortOneYear:
		return byPrice(planKey(PlanOneYear), desc)
	case SortLifetime:
		return byPrice(planKey(PlanLifetime), desc)
	case SortDevices:
		return func(a, b *Product) bool {
			if desc {
				return b.Devices.SortValue() < a.Devices.SortValue()
			}
			return a.Devices.SortValue() < b.Devices.SortValue()
		}
	}
	return nil
}

func byPrice(key priceKey, desc bool) func(a, b *Product) bool {
	return func(a, b *Product) bool {
		c := comparePrices(key, a, b)
		if desc {
			return c > 0
		}
		return c < 0
	}
}

func comparePrices(key priceKey, a, b *Product) int {
	av, aok := key(a)
	bv, bok := key(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return av.Cmp(bv)
}
