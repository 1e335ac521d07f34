package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// categoryField absorbs the two wire shapes of a product category: older
// backend versions send a bare string, newer ones an object. Whatever
// arrives is normalized here and the ambiguity never leaves this package.
type categoryField struct {
	domain.Category
}

func (c *categoryField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		c.Category = domain.Category{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Category = domain.Category{ID: s, Name: s}
		return nil
	}
	var cat domain.Category
	if err := json.Unmarshal(data, &cat); err != nil {
		return err
	}
	c.Category = cat
	return nil
}

// parseStatus normalizes a wire status, falling back to the upper-cased raw
// value for vocabulary the backend grows before we do.
func parseStatus(raw string) domain.OrderStatus {
	if s, err := domain.ParseOrderStatus(raw); err == nil {
		return s
	}
	return domain.OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func parseDelivery(raw string) domain.DeliveryMethod {
	if d, err := domain.ParseDeliveryMethod(raw); err == nil {
		return d
	}
	return domain.DeliveryMethod(strings.ToUpper(strings.TrimSpace(raw)))
}

func parsePayment(raw string) domain.PaymentMethod {
	if p, err := domain.ParsePaymentMethod(raw); err == nil {
		return p
	}
	return domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
}

// parseTime tolerates the timestamp formats seen across backend versions.
func parseTime(raw string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
