package cart

import (
	"testing"

	"github.com/hanumanlabs/storefront/internal/modules/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID string, plan catalog.Plan, price string, qty int) Line {
	return Line{ProductID: productID, Plan: plan, UnitPrice: decimal.RequireFromString(price), Qty: qty}
}

func TestAdd_MergesIdenticalLines(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("p1", catalog.PlanOneYear, "14.99", 1)))
	require.NoError(t, c.Add(line("p1", catalog.PlanOneYear, "14.990", 2)))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Qty)
}

func TestAdd_DistinctKeysStaySeparate(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("p1", catalog.PlanOneYear, "14.99", 1)))
	require.NoError(t, c.Add(line("p1", catalog.PlanLifetime, "14.99", 1)))
	require.NoError(t, c.Add(line("p1", catalog.PlanOneYear, "13.99", 1)))
	require.NoError(t, c.Add(line("p2", catalog.PlanOneYear, "14.99", 1)))

	assert.Len(t, c.Lines, 4)
	assert.Equal(t, 4, c.Count())
}

func TestAdd_RejectsNonPositiveQty(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(line("p1", catalog.PlanOneYear, "1", 0)), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestSubtotal_ZeroQtyLineKept(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanOneYear, "10", 2)))
	require.NoError(t, c.Add(line("b", catalog.PlanOneYear, "5", 1)))
	require.NoError(t, c.SetQty(1, 0))

	assert.Len(t, c.Lines, 2)
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 2, c.Count())
}

func TestSubtotal_Exact(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanSixMonth, "0.1", 3)))
	require.NoError(t, c.Add(line("b", catalog.PlanSixMonth, "0.2", 1)))
	assert.Equal(t, "0.5", c.Subtotal().String())
}

func TestSetQty_Errors(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanOneYear, "10", 2)))

	assert.ErrorIs(t, c.SetQty(0, -1), ErrNegativeQuantity)
	assert.ErrorIs(t, c.SetQty(1, 1), ErrLineOutOfRange)
	assert.ErrorIs(t, c.SetQty(-1, 1), ErrLineOutOfRange)
	assert.Equal(t, 2, c.Lines[0].Qty)
}

func TestRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanOneYear, "10", 1)))
	require.NoError(t, c.Add(line("b", catalog.PlanOneYear, "5", 1)))

	require.NoError(t, c.Remove(0))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "b", c.Lines[0].ProductID)
	assert.ErrorIs(t, c.Remove(3), ErrLineOutOfRange)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanOneYear, "10", 1)))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}

func TestNewView(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", catalog.PlanOneYear, "14.99", 2)))

	v := NewView(c)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 0, v.Lines[0].Index)
	assert.Equal(t, "29.98", v.Lines[0].LineTotal.String())
	assert.Equal(t, "29.98", v.Subtotal.String())
	assert.Equal(t, 2, v.Count)

	assert.NotNil(t, NewView(New()).Lines)
}
