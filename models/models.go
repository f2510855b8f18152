package models

import (
	"math"
	"time"
)

// Session is the authenticated identity derived from the signed token's
// claims, later enriched with profile fields fetched from the backend.
type Session struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	RoleID   int    `json:"role_id"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// AdminRoleID is the role claim value the backend issues for back-office users.
const AdminRoleID = 1

// IsAdmin reports whether the session carries the elevated role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.RoleID == AdminRoleID
}

// CartLine is a single cart row. At most one line exists per
// (ProductID, Size) pair.
type CartLine struct {
	ProductID int     `json:"product_id"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Name      string  `json:"name,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// Product is the canonical read-only projection produced by the normalizer.
// Price keeps full precision; use DisplayPrice for rendering.
type Product struct {
	ID                 int        `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Price              float64    `json:"price"`
	OriginalPrice      float64    `json:"original_price,omitempty"`
	DiscountPercentage float64    `json:"discount_percentage,omitempty"`
	DiscountEndDate    *time.Time `json:"discount_end_date,omitempty"`
	Category           string     `json:"category"`
	Images             []string   `json:"images,omitempty"`
	Rating             float64    `json:"rating"`
	ReviewCount        int        `json:"review_count"`
	Sizes              []string   `json:"sizes,omitempty"`
	InStock            bool       `json:"in_stock"`
	IsBestSeller       bool       `json:"is_best_seller"`
	IsNew              bool       `json:"is_new"`
	IsSale             bool       `json:"is_sale"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	TotalSold          int        `json:"total_sold,omitempty"`
}

// DisplayPrice is the price rounded to 2 decimal places for rendering.
// The canonical Price keeps full precision.
func (p Product) DisplayPrice() float64 {
	return math.Round(p.Price*100) / 100
}

// Review as submitted and moderated through the reviews endpoints.
type Review struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UserID      int       `json:"user_id"`
	UserName    string    `json:"user_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order is a read-only projection for history and admin displays.
type Order struct {
	ID           int         `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	Status       string      `json:"status"`
	TotalAmount  float64     `json:"total_amount"`
	Items        []OrderItem `json:"items,omitempty"`
	ShippingCity string      `json:"shipping_city,omitempty"`
	TrackingID   string      `json:"tracking_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
}

type OrderItem struct {
	CartID    int     `json:"cart_id,omitempty"`
	ProductID int     `json:"product_id,omitempty"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Price     float64 `json:"price"`
}
