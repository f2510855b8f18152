// Package orders drives checkout and order history for a customer.
package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/normalize"
)

type Service struct {
	api      *client.Client
	validate *validator.Validate
}

func NewService(api *client.Client) *Service {
	return &Service{
		api:      api,
		validate: validator.New(),
	}
}

// Create places an order (POST /orders). The payload is validated before any
// network call; the server recomputes final amounts. A 404 means one or more
// cart rows vanished between cart display and checkout.
func (s *Service) Create(ctx context.Context, payload models.OrderPayload, token string) (json.RawMessage, error) {
	if token == "" {
		return nil, apperrors.ErrAuthRequired
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, apperrors.New(apperrors.ErrValidation.Code, apperrors.ErrValidation.Message, err)
	}

	raw, err := s.api.Request(ctx, http.MethodPost, "/orders", &client.Options{
		Token: token,
		Body:  payload,
	})
	if err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, apperrors.New(http.StatusNotFound, "One or more items in your cart are no longer available", err)
		}
		return nil, err
	}
	return raw, nil
}

// List fetches the customer's order history (GET /orders).
func (s *Service) List(ctx context.Context, token string) ([]models.Order, error) {
	if token == "" {
		return nil, apperrors.ErrAuthRequired
	}
	raw, err := s.api.Request(ctx, http.MethodGet, "/orders", &client.Options{Token: token})
	if err != nil {
		return nil, err
	}
	return normalize.Orders(raw), nil
}

// Recent fetches the latest orders via the compact endpoint
// (GET /recent-orders?limit=).
func (s *Service) Recent(ctx context.Context, token string, limit int) ([]models.Order, error) {
	if token == "" {
		return nil, apperrors.ErrAuthRequired
	}
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	raw, err := s.api.Request(ctx, http.MethodGet, "/recent-orders", &client.Options{
		Token: token,
		Query: query,
	})
	if err != nil {
		return nil, err
	}
	return normalize.Orders(raw), nil
}
