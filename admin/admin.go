// Package admin drives the back-office endpoints. Every call requires the
// elevated credential; the gateway client handles the raw-token convention
// these routes expect.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/normalize"
)

type Service struct {
	api *client.Client
}

func NewService(api *client.Client) *Service {
	return &Service{api: api}
}

func requireToken(token string) error {
	if token == "" {
		return apperrors.ErrAuthRequired
	}
	return nil
}

// --- products ---

func (s *Service) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodGet, "/admin/products", &client.Options{Token: token})
	if err != nil {
		return nil, err
	}
	return normalize.Products(raw), nil
}

// CreateProduct sends the product form, image upload included, as
// multipart/form-data.
func (s *Service) CreateProduct(ctx context.Context, form *client.Multipart, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPost, "/admin/products", &client.Options{
		Token:     token,
		Multipart: form,
	})
	return err
}

func (s *Service) UpdateProduct(ctx context.Context, form *client.Multipart, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPut, "/admin/products", &client.Options{
		Token:     token,
		Multipart: form,
	})
	return err
}

// DeleteProduct uses a form-encoded body; this route predates the JSON
// endpoints and still expects application/x-www-form-urlencoded.
func (s *Service) DeleteProduct(ctx context.Context, productID int, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	form := url.Values{}
	form.Set("id", strconv.Itoa(productID))
	_, err := s.api.Request(ctx, http.MethodDelete, "/admin/products", &client.Options{
		Token: token,
		Form:  form,
	})
	return err
}

// SetBestSeller toggles the best-seller flag on a product.
func (s *Service) SetBestSeller(ctx context.Context, productID int, bestSeller bool, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	form := client.NewMultipart().
		AddField("id", strconv.Itoa(productID)).
		AddField("is_best_seller", strconv.FormatBool(bestSeller))
	_, err := s.api.Request(ctx, http.MethodPut, "/admin/products/best-seller", &client.Options{
		Token:     token,
		Multipart: form,
	})
	return err
}

// --- special offers ---

func (s *Service) CreateSpecialOffer(ctx context.Context, form *client.Multipart, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPost, "/admin/special-offers", &client.Options{
		Token:     token,
		Multipart: form,
	})
	return err
}

func (s *Service) UpdateSpecialOffer(ctx context.Context, offerID int, form *client.Multipart, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPut, fmt.Sprintf("/admin/special-offers/%d", offerID), &client.Options{
		Token:     token,
		Multipart: form,
	})
	return err
}

func (s *Service) RemoveSpecialOffer(ctx context.Context, offerID int, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/admin/special-offers/%d", offerID), &client.Options{Token: token})
	return err
}

// --- orders ---

// OrderFilters narrows the admin order listing.
type OrderFilters struct {
	Status  string
	UserID  int
	Page    int
	PerPage int
}

func (f OrderFilters) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.UserID > 0 {
		q.Set("user_id", strconv.Itoa(f.UserID))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return q
}

func (s *Service) ListOrders(ctx context.Context, filters OrderFilters, token string) ([]models.Order, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodGet, "/admin/orders", &client.Options{
		Token: token,
		Query: filters.query(),
	})
	if err != nil {
		return nil, err
	}
	return normalize.Orders(raw), nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int, token string) (models.Order, error) {
	if err := requireToken(token); err != nil {
		return models.Order{}, err
	}
	raw, err := s.api.Request(ctx, http.MethodGet, fmt.Sprintf("/admin/orders/%d", orderID), &client.Options{Token: token})
	if err != nil {
		return models.Order{}, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.Order{}, err
	}
	if inner, ok := m["order"].(map[string]any); ok {
		m = inner
	}
	return normalize.Order(m), nil
}

// UpdateOrderStatus tries a JSON PATCH first. Some backend deployments only
// accept form-encoded payloads on this route and answer 400 to JSON; in that
// case the call is retried once as application/x-www-form-urlencoded.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int, status string, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("/admin/orders/%d/status", orderID)
	_, err := s.api.Request(ctx, http.MethodPatch, endpoint, &client.Options{
		Token: token,
		Body:  map[string]string{"status": status},
	})
	if err == nil {
		return nil
	}
	if !client.IsStatus(err, http.StatusBadRequest) {
		return err
	}

	form := url.Values{}
	form.Set("status", status)
	if _, retryErr := s.api.Request(ctx, http.MethodPatch, endpoint, &client.Options{
		Token: token,
		Form:  form,
	}); retryErr == nil {
		return nil
	}
	return err
}

// --- analytics, moderation, misc ---

// SalesReport fetches aggregated sales for a day range
// (GET /admin/sales/report?start=&end=).
func (s *Service) SalesReport(ctx context.Context, start, end string, token string) (json.RawMessage, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	query := url.Values{}
	if start != "" && end != "" {
		query.Set("start", start)
		query.Set("end", end)
	}
	return s.api.Request(ctx, http.MethodGet, "/admin/sales/report", &client.Options{
		Token: token,
		Query: query,
	})
}

func (s *Service) SalesData(ctx context.Context, token string) (json.RawMessage, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	return s.api.Request(ctx, http.MethodGet, "/admin/sales/data", &client.Options{Token: token})
}

func (s *Service) Dashboard(ctx context.Context, token string) (json.RawMessage, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	return s.api.Request(ctx, http.MethodGet, "/admin/dashboard", &client.Options{Token: token})
}

func (s *Service) ListCarts(ctx context.Context, token string) (json.RawMessage, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	return s.api.Request(ctx, http.MethodGet, "/admin/carts", &client.Options{Token: token})
}

func (s *Service) ListPayments(ctx context.Context, token string) (json.RawMessage, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	return s.api.Request(ctx, http.MethodGet, "/admin/payments", &client.Options{Token: token})
}

func (s *Service) ListReviews(ctx context.Context, token string) ([]models.Review, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodGet, "/admin/reviews", &client.Options{Token: token})
	if err != nil {
		return nil, err
	}
	return normalize.Reviews(raw), nil
}

func (s *Service) DeleteReview(ctx context.Context, reviewID int, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/admin/reviews/%d", reviewID), &client.Options{Token: token})
	return err
}
