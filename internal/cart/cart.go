// Package cart implements the session cart: an ordered collection of line
// items keyed by product id plus optional variant size.
package cart

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// CouponCode is the single supported discount code: flat 10%, once per cart.
const CouponCode = "PRIMERA10"

var ErrInvalidCoupon = errors.New("invalid coupon code")

// SelectedVariant is the variant choice captured on a line item.
type SelectedVariant struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// Line is one cart entry. Price is the unit price at add time: the variant
// price when a variant was selected, the product price otherwise. Available
// and IsAvailable carry the same value; both names exist because downstream
// consumers still expect either spelling.
type Line struct {
	ProductID       string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Quantity        int              `json:"quantity"`
	SelectedVariant *SelectedVariant `json:"selectedVariant,omitempty"`
	Available       bool             `json:"available"`
	IsAvailable     bool             `json:"is_available"`
}

// Key returns the composite key identifying this line.
func (l Line) Key() string {
	if l.SelectedVariant != nil {
		return LineKey(l.ProductID, l.SelectedVariant.Size)
	}
	return LineKey(l.ProductID, "")
}

// DisplayName is the line name with the variant size appended, e.g.
// "Chicha (M)".
func (l Line) DisplayName() string {
	if l.SelectedVariant != nil {
		return l.Name + " (" + l.SelectedVariant.Size + ")"
	}
	return l.Name
}

// LineKey builds the composite key for a product id and an optional variant
// size. Two lines with the same product but different sizes are distinct.
func LineKey(productID, size string) string {
	if size == "" {
		return productID
	}
	return productID + "-" + size
}

// Cart holds the session's line items and coupon state. It is a plain value;
// concurrent access is the owning Store's concern.
type Cart struct {
	RestaurantID  string    `json:"restaurantId"`
	Lines         []Line    `json:"lines"`
	CouponApplied bool      `json:"couponApplied"`
	Discount      float64   `json:"discount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func New(restaurantID string) *Cart {
	return &Cart{RestaurantID: restaurantID, UpdatedAt: time.Now()}
}

// Add merges the product into the cart. A line matching the composite key has
// its quantity incremented by one; otherwise a new line with quantity 1 is
// appended, priced from the variant when one is given.
func (c *Cart) Add(p domain.Product, variant *SelectedVariant) {
	key := LineKey(p.ID, "")
	if variant != nil {
		key = LineKey(p.ID, variant.Size)
	}

	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity++
			c.touch()
			return
		}
	}

	price := p.Price
	if variant != nil {
		price = variant.Price
	}
	c.Lines = append(c.Lines, Line{
		ProductID:       p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           price,
		ImageURL:        p.ImageURL,
		Quantity:        1,
		SelectedVariant: variant,
		Available:       p.Available,
		IsAvailable:     p.Available,
	})
	c.touch()
}

// Remove deletes the line with the given composite key. Removing an absent
// key is a no-op.
func (c *Cart) Remove(key string) {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less removes
// the line, so the cart never holds a non-positive quantity.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	if quantity <= 0 {
		c.Remove(key)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity = quantity
			c.touch()
			return
		}
	}
}

// Clear empties the cart and resets coupon state.
func (c *Cart) Clear() {
	c.Lines = nil
	c.CouponApplied = false
	c.Discount = 0
	c.touch()
}

// TotalPrice is the sum of price*quantity over all lines, before discount.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalItems is the sum of quantities over all lines.
func (c *Cart) TotalItems() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// ApplyCoupon applies the discount code. The discount is round(subtotal*0.1),
// computed once; applying the same code again is a no-op. Unknown codes are
// rejected before any network activity.
func (c *Cart) ApplyCoupon(code string) error {
	if !strings.EqualFold(strings.TrimSpace(code), CouponCode) {
		return ErrInvalidCoupon
	}
	if c.CouponApplied {
		return nil
	}
	c.Discount = math.Round(c.TotalPrice() * 0.1)
	c.CouponApplied = true
	c.touch()
	return nil
}

// Total is the payable amount: subtotal minus discount, clamped at zero.
func (c *Cart) Total() float64 {
	total := c.TotalPrice() - c.Discount
	if total < 0 {
		return 0
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
