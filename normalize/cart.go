package normalize

import (
	"encoding/json"

	"github.com/vasastore/storefront-client/models"
)

var cartListKeys = []string{"cart_items", "items", "cart", "data"}

// CartLines resolves a cart response into canonical lines.
func CartLines(raw json.RawMessage) []models.CartLine {
	list := findList(decode(raw), cartListKeys)
	lines := make([]models.CartLine, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			lines = append(lines, CartLine(m))
		}
	}
	return lines
}

// CartLine maps one backend cart row into the canonical shape.
func CartLine(m map[string]any) models.CartLine {
	price, _ := num(m, "price", "unit_price")
	return models.CartLine{
		ProductID: integer(m, "product_id", "perfume_id"),
		Size:      str(m, "size", "selected_size"),
		Quantity:  integer(m, "quantity"),
		UnitPrice: price,
		Name:      str(m, "name", "product_name", "perfume_name"),
		ImageURL:  str(m, "image_url", "photo_url", "image"),
	}
}
