package normalize

import (
	"encoding/json"

	"github.com/vasastore/storefront-client/models"
)

var orderListKeys = []string{"orders", "data", "results", "recent"}

// Orders resolves a list-like order response into canonical orders.
func Orders(raw json.RawMessage) []models.Order {
	list := findList(decode(raw), orderListKeys)
	orders := make([]models.Order, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			orders = append(orders, Order(m))
		}
	}
	return orders
}

// Order maps one backend order object into the canonical display projection.
// Field names vary wildly across backend versions; totals and customer names
// in particular have accumulated aliases.
func Order(m map[string]any) models.Order {
	o := models.Order{
		ID:         integer(m, "id", "order_id"),
		Status:     str(m, "status", "order_status"),
		TrackingID: str(m, "tracking_id", "tracking_number"),
	}
	if t := timestamp(m, "created_at", "order_date", "date"); t != nil {
		o.CreatedAt = *t
	}
	o.TotalAmount, _ = num(m, "total", "amount", "grand_total", "total_amount", "order_total")

	o.ShippingCity = str(m, "shipping_city", "city")
	if shipping, ok := m["shipping"].(map[string]any); ok && o.ShippingCity == "" {
		o.ShippingCity = str(shipping, "city")
	}

	o.CustomerName = str(m, "customer_name", "user_name", "name", "full_name", "email")
	if o.CustomerName == "" {
		first := str(m, "first_name")
		last := str(m, "last_name")
		if first != "" || last != "" {
			o.CustomerName = joinName(first, last)
		}
	}

	if arr, ok := m["items"].([]any); ok {
		for _, item := range arr {
			if im, ok := item.(map[string]any); ok {
				price, _ := num(im, "price", "unit_price")
				o.Items = append(o.Items, models.OrderItem{
					CartID:    integer(im, "cart_id"),
					ProductID: integer(im, "product_id", "perfume_id"),
					Quantity:  integer(im, "quantity"),
					Size:      str(im, "size"),
					Price:     price,
				})
			}
		}
	}
	return o
}

func joinName(first, last string) string {
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}
