package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Plan is a purchase duration tier.
type Plan string

const (
	PlanSixMonth Plan = "6-Month"
	PlanOneYear  Plan = "1-Year"
	PlanLifetime Plan = "Lifetime"
)

// AllPlans lists the plans in display order.
var AllPlans = []Plan{PlanSixMonth, PlanOneYear, PlanLifetime}

// ParsePlan accepts a plan label ("1-Year") or its sort-key alias ("oneYear").
func ParsePlan(s string) (Plan, error) {
	switch s {
	case string(PlanSixMonth), "sixMonth":
		return PlanSixMonth, nil
	case string(PlanOneYear), "oneYear":
		return PlanOneYear, nil
	case string(PlanLifetime), "lifetime":
		return PlanLifetime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

// unlimitedSortValue stands in for "unlimited" devices when ordering.
const unlimitedSortValue = 9999

// Devices is a device-count capacity: either Limited(n) or Unlimited.
type Devices struct {
	n         int
	unlimited bool
}

func Limited(n int) Devices { return Devices{n: n} }

func Unlimited() Devices { return Devices{unlimited: true} }

func (d Devices) IsUnlimited() bool { return d.unlimited }

// Count returns the device limit and false when unlimited.
func (d Devices) Count() (int, bool) {
	if d.unlimited {
		return 0, false
	}
	return d.n, true
}

// SortValue maps unlimited to a large finite sentinel so comparisons stay total.
func (d Devices) SortValue() int {
	if d.unlimited {
		return unlimitedSortValue
	}
	return d.n
}

func (d Devices) String() string {
	if d.unlimited {
		return "∞"
	}
	return strconv.Itoa(d.n)
}

func (d Devices) MarshalJSON() ([]byte, error) {
	if d.unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(d.n)), nil
}

func (d *Devices) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("invalid devices value %q", s)
		}
		*d = Unlimited()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid devices value: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("devices must be positive, got %d", n)
	}
	*d = Limited(n)
	return nil
}

// PriceTable holds raw catalog prices. A nil entry means the plan is not offered.
type PriceTable struct {
	SixMonth *decimal.Decimal `json:"sixMonth"`
	OneYear  *decimal.Decimal `json:"oneYear"`
	Lifetime *decimal.Decimal `json:"lifetime"`
}

// Raw returns the undisplayed catalog price for a plan.
func (t PriceTable) Raw(plan Plan) (decimal.Decimal, bool) {
	var v *decimal.Decimal
	switch plan {
	case PlanSixMonth:
		v = t.SixMonth
	case PlanOneYear:
		v = t.OneYear
	case PlanLifetime:
		v = t.Lifetime
	}
	if v == nil {
		return decimal.Zero, false
	}
	return *v, true
}

// Product is a catalog entry.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Categories  []string   `json:"categories"`
	Prices      PriceTable `json:"prices"`
	Devices     Devices    `json:"devices"`
	Description string     `json:"description"`
	Link        string     `json:"link,omitempty"`
}

// PlanPrice is an offered plan with its display price.
type PlanPrice struct {
	Plan  Plan            `json:"plan"`
	Price decimal.Decimal `json:"price"`
}

// Plans returns the offered plans in display order, priced for display.
func (p *Product) Plans() []PlanPrice {
	var plans []PlanPrice
	for _, plan := range AllPlans {
		if raw, ok := p.Prices.Raw(plan); ok {
			plans = append(plans, PlanPrice{Plan: plan, Price: Display(raw)})
		}
	}
	return plans
}

// PlanPrice returns the display price of one plan.
func (p *Product) PlanPrice(plan Plan) (decimal.Decimal, bool) {
	raw, ok := p.Prices.Raw(plan)
	if !ok {
		return decimal.Zero, false
	}
	return Display(raw), true
}

// Purchasable reports whether at least one plan has a price.
func (p *Product) Purchasable() bool {
	return len(p.Plans()) > 0
}

// MinPrice is the lowest display price across offered plans.
func (p *Product) MinPrice() (decimal.Decimal, bool) {
	plans := p.Plans()
	if len(plans) == 0 {
		return decimal.Zero, false
	}
	min := plans[0].Price
	for _, pp := range plans[1:] {
		if pp.Price.LessThan(min) {
			min = pp.Price
		}
	}
	return min, true
}

// HasCategory reports an exact tag match.
func (p *Product) HasCategory(c string) bool {
	for _, pc := range p.Categories {
		if pc == c {
			return true
		}
	}
	return false
}

// ProductView is the JSON shape returned by the catalog API.
type ProductView struct {
	*Product
	Plans       []PlanPrice      `json:"plans"`
	MinPrice    *decimal.Decimal `json:"minPrice,omitempty"`
	Purchasable bool             `json:"purchasable"`
}

func NewProductView(p *Product) ProductView {
	v := ProductView{Product: p, Plans: p.Plans(), Purchasable: p.Purchasable()}
	if v.Plans == nil {
		v.Plans = []PlanPrice{}
	}
	if min, ok := p.MinPrice(); ok {
		v.MinPrice = &min
	}
	return v
}
