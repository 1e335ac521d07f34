package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

func choripan() domain.Product {
	return domain.Product{
		ID:        "p1",
		Name:      "Choripán",
		Price:     1000,
		Available: true,
	}
}

func chicha() domain.Product {
	return domain.Product{
		ID:        "p2",
		Name:      "Chicha",
		Price:     1800,
		Available: true,
		Variants: []domain.ProductVariant{
			{Size: "S", Price: 1500},
			{Size: "M", Price: 2000},
		},
	}
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	c := New("mazorca")

	c.Add(choripan(), nil)
	c.Add(choripan(), nil)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 1000.0, c.Lines[0].Price)
	assert.Equal(t, 2000.0, c.TotalPrice())
}

func TestAdd_SameVariantMerges(t *testing.T) {
	c := New("mazorca")
	v := &SelectedVariant{Size: "S", Price: 1500}

	c.Add(chicha(), v)
	c.Add(chicha(), v)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 1500.0, c.Lines[0].Price)
	assert.Equal(t, "p2-S", c.Lines[0].Key())
}

func TestAdd_DifferentVariantsAreDistinctLines(t *testing.T) {
	c := New("mazorca")

	c.Add(chicha(), &SelectedVariant{Size: "S", Price: 1500})
	c.Add(chicha(), &SelectedVariant{Size: "M", Price: 2000})

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, 3500.0, c.TotalPrice())
}

func TestAdd_VariantAndNoVariantAreDistinct(t *testing.T) {
	c := New("mazorca")

	c.Add(chicha(), nil)
	c.Add(chicha(), &SelectedVariant{Size: "S", Price: 1500})

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "p2", c.Lines[0].Key())
	assert.Equal(t, "p2-S", c.Lines[1].Key())
}

func TestAdd_NormalizesAvailabilityAliases(t *testing.T) {
	p := choripan()
	p.Available = true

	c := New("mazorca")
	c.Add(p, nil)

	assert.True(t, c.Lines[0].Available)
	assert.True(t, c.Lines[0].IsAvailable)
}

func TestRemove_AbsentKeyIsNoop(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	c.Remove("does-not-exist")

	assert.Len(t, c.Lines, 1)
}

func TestUpdateQuantity(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	c.UpdateQuantity("p1", 5)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	c.UpdateQuantity("p1", 0)

	assert.Empty(t, c.Lines)
}

func TestUpdateQuantity_NegativeRemovesLine(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	c.UpdateQuantity("p1", -1)

	assert.Empty(t, c.Lines)
}

func TestClear(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)
	require.NoError(t, c.ApplyCoupon("PRIMERA10"))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.False(t, c.CouponApplied)
	assert.Equal(t, 0.0, c.Discount)
}

func TestTotalPrice_EmptyCartIsZero(t *testing.T) {
	c := New("mazorca")
	assert.Equal(t, 0.0, c.TotalPrice())
	assert.Equal(t, 0, c.TotalItems())
}

func TestApplyCoupon(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil) // subtotal 1000

	require.NoError(t, c.ApplyCoupon("PRIMERA10"))
	assert.Equal(t, 100.0, c.Discount)
	assert.Equal(t, 900.0, c.Total())
}

func TestApplyCoupon_CaseInsensitive(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	require.NoError(t, c.ApplyCoupon("primera10"))
	assert.True(t, c.CouponApplied)
}

func TestApplyCoupon_Idempotent(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	require.NoError(t, c.ApplyCoupon("PRIMERA10"))
	first := c.Discount

	require.NoError(t, c.ApplyCoupon("PRIMERA10"))
	assert.Equal(t, first, c.Discount)
	assert.Equal(t, 900.0, c.Total())
}

func TestApplyCoupon_InvalidCode(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)

	err := c.ApplyCoupon("SEGUNDA20")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
	assert.False(t, c.CouponApplied)
}

func TestTotal_NeverNegative(t *testing.T) {
	c := New("mazorca")
	c.Add(choripan(), nil)
	require.NoError(t, c.ApplyCoupon("PRIMERA10"))

	// Shrink the cart after the discount was computed: discount (100) now
	// exceeds a zero subtotal.
	c.Remove("p1")

	assert.Equal(t, 0.0, c.Total())
}

func TestLineDisplayName(t *testing.T) {
	c := New("mazorca")
	c.Add(chicha(), &SelectedVariant{Size: "M", Price: 2000})
	c.Add(choripan(), nil)

	assert.Equal(t, "Chicha (M)", c.Lines[0].DisplayName())
	assert.Equal(t, "Choripán", c.Lines[1].DisplayName())
}
