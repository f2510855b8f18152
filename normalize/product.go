package normalize

import (
	"encoding/json"
	"time"

	"github.com/vasastore/storefront-client/models"
)

// newProductWindow is how long after creation a product counts as new.
const newProductWindow = 30 * 24 * time.Hour

var productListKeys = []string{
	"products", "perfumes", "best_sellers", "new_arrivals", "special_offers", "data",
}

// Products resolves a list-like catalog response into canonical products.
// Never fails; unrecognized shapes yield an empty slice.
func Products(raw json.RawMessage) []models.Product {
	list := findList(decode(raw), productListKeys)
	products := make([]models.Product, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			products = append(products, Product(m))
		}
	}
	return products
}

// ProductResponse normalizes a single-product payload, unwrapping common
// envelope keys first.
func ProductResponse(raw json.RawMessage) models.Product {
	v := decode(raw)
	m, ok := v.(map[string]any)
	if !ok {
		return models.Product{}
	}
	for _, key := range []string{"product", "perfume", "data"} {
		if inner, ok := m[key].(map[string]any); ok {
			m = inner
			break
		}
	}
	return Product(m)
}

// Product maps one backend product object into the canonical shape.
func Product(m map[string]any) models.Product {
	p := models.Product{
		ID:          integer(m, "id", "product_id", "perfume_id"),
		Name:        str(m, "name"),
		Description: str(m, "description"),
		Category:    Category(str(m, "category")),
	}

	rawPrice, _ := num(m, "price")
	original, hasOriginal := num(m, "original_price")
	pct, _ := num(m, "discount_percentage")

	// Price precedence: explicit discounted price, computed discount off the
	// original, then the raw price field. Full precision is kept here.
	if discounted, ok := num(m, "discounted_price"); ok {
		p.Price = discounted
	} else if pct > 0 && hasOriginal {
		p.Price = original * (1 - pct/100)
	} else {
		p.Price = rawPrice
	}
	if hasOriginal {
		p.OriginalPrice = original
	} else {
		p.OriginalPrice = rawPrice
	}
	p.DiscountPercentage = pct
	p.DiscountEndDate = timestamp(m, "end_date", "discount_end_date")
	p.IsSale = pct > 0 || hasOriginal

	if url := str(m, "photo_url", "image", "image_url"); url != "" {
		p.Images = []string{url}
	}
	if arr, ok := m["images"].([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok && s != "" {
				p.Images = append(p.Images, s)
			}
		}
	}

	if rating, ok := num(m, "rating", "average_rating"); ok {
		p.Rating = rating
	} else {
		p.Rating = 5
	}
	p.ReviewCount = integer(m, "reviews", "total_reviews", "review_count")

	if size := str(m, "size"); size != "" {
		p.Sizes = []string{size}
	} else if arr, ok := m["sizes"].([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				p.Sizes = append(p.Sizes, s)
			}
		}
	}

	if _, ok := m["in_stock"]; ok {
		p.InStock = boolean(m, "in_stock")
	} else {
		quantity := integer(m, "quantity")
		p.InStock = boolean(m, "available") && quantity > 0
	}

	p.TotalSold = integer(m, "total_sold")
	p.IsBestSeller = boolean(m, "is_best_seller") || p.TotalSold > 100

	p.CreatedAt = timestamp(m, "created_at")
	if p.CreatedAt != nil {
		p.IsNew = time.Since(*p.CreatedAt) <= newProductWindow
	}

	return p
}
