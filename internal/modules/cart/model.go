package cart

import (
	"errors"

	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/shopspring/decimal"
)

var (
	ErrLineOutOfRange   = errors.New("cart line index out of range")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrPlanNotOffered   = errors.New("plan is not offered for this product")
	ErrEmptyCart        = errors.New("cart is empty")
)

// Line is one (product, plan, unit price) entry with its quantity.
// Name is a display snapshot and plays no part in line identity.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Plan      catalog.Plan    `json:"plan"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
}

// Total is qty * unitPrice.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

func (l Line) sameItem(o Line) bool {
	return l.ProductID == o.ProductID && l.Plan == o.Plan && l.UnitPrice.Equal(o.UnitPrice)
}

// Cart accumulates lines for one session. It is not safe for concurrent use;
// the store serializes access per session.
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart { return &Cart{Lines: []Line{}} }

// Add merges l into an existing line with the same product, plan and unit
// price, or appends it.
func (c *Cart) Add(l Line) error {
	if l.Qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].sameItem(l) {
			c.Lines[i].Qty += l.Qty
			return nil
		}
	}
	c.Lines = append(c.Lines, l)
	return nil
}

// SetQty replaces the quantity of line i. Zero keeps the line.
func (c *Cart) SetQty(i, qty int) error {
	if qty < 0 {
		return ErrNegativeQuantity
	}
	if i < 0 || i >= len(c.Lines) {
		return ErrLineOutOfRange
	}
	c.Lines[i].Qty = qty
	return nil
}

func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.Lines) {
		return ErrLineOutOfRange
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return nil
}

// Subtotal sums qty * unitPrice over every line, zero-quantity lines included.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Count is the total quantity across lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) Clear() { c.Lines = []Line{} }

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// ── Views ─────────────────────────────────────────────────────────────────────

// LineView is a line with its computed total.
type LineView struct {
	Index int `json:"index"`
	Line
	LineTotal decimal.Decimal `json:"total"`
}

// View is the JSON shape returned by the cart API.
type View struct {
	Lines    []LineView      `json:"lines"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewView(c *Cart) View {
	v := View{Lines: make([]LineView, 0, len(c.Lines)), Count: c.Count(), Subtotal: c.Subtotal()}
	for i, l := range c.Lines {
		v.Lines = append(v.Lines, LineView{Index: i, Line: l, LineTotal: l.Total()})
	}
	return v
}
