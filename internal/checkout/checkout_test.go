package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

func testCart() *cart.Cart {
	c := cart.New("mazorca")
	c.Add(domain.Product{ID: "arepa-1", Name: "Arepa", Price: 8000}, nil)
	c.Add(domain.Product{ID: "arepa-1", Name: "Arepa", Price: 8000}, nil)
	c.Add(domain.Product{ID: "chicha-1", Name: "Chicha", Price: 3000},
		&cart.SelectedVariant{Size: "M", Price: 3500})
	return c
}

func TestBuild(t *testing.T) {
	c := testCart()

	in, err := Build(c, Request{
		PaymentMethod:  "efectivo",
		DeliveryMethod: "mesa",
		Mesa:           "4",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultCustomerName, in.CustomerName)
	assert.Equal(t, DefaultCustomerPhone, in.CustomerPhone)
	assert.Equal(t, DefaultCustomerEmail, in.CustomerEmail)
	assert.Equal(t, "mazorca", in.RestaurantID)
	assert.Equal(t, domain.PaymentCash, in.PaymentMethod)
	assert.Equal(t, domain.DeliveryDineIn, in.DeliveryMethod)
	assert.Equal(t, "4", in.Mesa)
	assert.Empty(t, in.DeliveryAddress)
	assert.Equal(t, 19500.0, in.Total)

	require.Len(t, in.Products, 2)
	assert.Equal(t, "arepa-1", in.Products[0].ID)
	assert.Equal(t, 2, in.Products[0].Quantity)
	assert.Equal(t, "chicha-1", in.Products[1].ID)
	assert.Equal(t, 3500.0, in.Products[1].Price)
}

func TestBuild_AppliesDiscountToTotal(t *testing.T) {
	c := testCart()
	require.NoError(t, c.ApplyCoupon("primera10"))

	in, err := Build(c, Request{PaymentMethod: "cash", DeliveryMethod: "pickup"})
	require.NoError(t, err)
	assert.Equal(t, 17550.0, in.Total) // 19500 - round(19500*0.1)
}

func TestBuild_CanonicalMethodValues(t *testing.T) {
	in, err := Build(testCart(), Request{
		PaymentMethod:   "TRANSFER",
		DeliveryMethod:  "DELIVERY",
		DeliveryAddress: "Calle 1 # 2-3",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTransfer, in.PaymentMethod)
	assert.Equal(t, domain.DeliveryDelivery, in.DeliveryMethod)
	assert.Equal(t, "Calle 1 # 2-3", in.DeliveryAddress)
	assert.Empty(t, in.Mesa)
}

func TestBuild_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		cart    *cart.Cart
		req     Request
		wantErr error
	}{
		{
			name:    "empty cart",
			cart:    cart.New("mazorca"),
			req:     Request{PaymentMethod: "efectivo", DeliveryMethod: "mesa", Mesa: "1"},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "delivery without address",
			cart:    testCart(),
			req:     Request{PaymentMethod: "efectivo", DeliveryMethod: "domicilio"},
			wantErr: ErrMissingAddress,
		},
		{
			name:    "dine-in without table",
			cart:    testCart(),
			req:     Request{PaymentMethod: "efectivo", DeliveryMethod: "mesa"},
			wantErr: ErrMissingMesa,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cart, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Build(testCart(), Request{PaymentMethod: "bitcoin", DeliveryMethod: "mesa", Mesa: "1"})
	assert.ErrorContains(t, err, "payment method")

	_, err = Build(testCart(), Request{PaymentMethod: "efectivo", DeliveryMethod: "drone"})
	assert.ErrorContains(t, err, "delivery method")
}

func TestWhatsAppMessage(t *testing.T) {
	c := testCart()
	in, err := Build(c, Request{
		PaymentMethod:  "transferencia",
		DeliveryMethod: "mesa",
		Mesa:           "7",
	})
	require.NoError(t, err)

	msg := WhatsAppMessage("Ay Wey", "ORD-42", c, in)

	assert.Contains(t, msg, "Pedido Ay Wey #ORD-42:")
	assert.Contains(t, msg, "- Arepa x2")
	assert.Contains(t, msg, "- Chicha (M) x1")
	assert.Contains(t, msg, "Total: $19.500")
	assert.Contains(t, msg, "Pago: Transferencia bancaria (Nequi)")
	assert.Contains(t, msg, "Entrega: mesa")
	assert.Contains(t, msg, "Mesa: 7")
	assert.Contains(t, msg, "Pedido realizado por mesero.")
}

func TestWhatsAppMessage_DeliveryIncludesAddress(t *testing.T) {
	c := testCart()
	in, err := Build(c, Request{
		PaymentMethod:   "efectivo",
		DeliveryMethod:  "domicilio",
		DeliveryAddress: "Calle 1 # 2-3",
	})
	require.NoError(t, err)

	msg := WhatsAppMessage("Ay Wey", "ORD-1", c, in)
	assert.Contains(t, msg, "Pago: Efectivo a la entrega")
	assert.Contains(t, msg, "Dirección: Calle 1 # 2-3")
	assert.NotContains(t, msg, "Mesa:")
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("", "hola mundo")
	assert.Equal(t, "https://wa.me/3000000000?text=hola+mundo", link)

	link = WhatsAppLink("3011234567", "x")
	assert.Equal(t, "https://wa.me/3011234567?text=x", link)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0", formatMoney(0))
	assert.Equal(t, "950", formatMoney(950))
	assert.Equal(t, "16.000", formatMoney(16000))
	assert.Equal(t, "1.250.000", formatMoney(1250000))
	assert.Equal(t, "12.500,5", formatMoney(12500.5))
}
