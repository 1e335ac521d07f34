package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// DefaultWhatsAppNumber is the restaurant number the confirmation link points
// at when none is configured.
const DefaultWhatsAppNumber = "3000000000"

func paymentLabel(p domain.PaymentMethod) string {
	if p == domain.PaymentTransfer {
		return "Transferencia bancaria (Nequi)"
	}
	return "Efectivo a la entrega"
}

// WhatsAppMessage composes the order summary the confirmation page offers to
// send to the restaurant's WhatsApp. The wording matches the message the
// restaurant staff already recognize.
func WhatsAppMessage(restaurantName, orderID string, c *cart.Cart, in domain.CreateOrderInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ Pedido %s #%s:\n\n", restaurantName, orderID)

	for _, l := range c.Lines {
		fmt.Fprintf(&b, "- %s x%d\n", l.DisplayName(), l.Quantity)
	}

	fmt.Fprintf(&b, "\nTotal: $%s\n", formatMoney(in.Total))
	fmt.Fprintf(&b, "Pago: %s\n", paymentLabel(in.PaymentMethod))
	fmt.Fprintf(&b, "Entrega: %s", in.DeliveryMethod.LegacyForm())

	switch in.DeliveryMethod {
	case domain.DeliveryDelivery:
		fmt.Fprintf(&b, "\nDirección: %s", in.DeliveryAddress)
	case domain.DeliveryDineIn:
		fmt.Fprintf(&b, "\nMesa: %s", in.Mesa)
	}

	b.WriteString("\n\nPedido realizado por mesero.")
	return b.String()
}

// WhatsAppLink builds the wa.me link carrying the message.
func WhatsAppLink(number, message string) string {
	if number == "" {
		number = DefaultWhatsAppNumber
	}
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}

// formatMoney renders an amount with dot thousands separators and a comma
// decimal separator, the way prices are shown on the storefront
// (16000 -> "16.000").
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], ","+s[i+1:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
