// Package catalog fetches the public product listings: browse, best
// sellers, new arrivals, and special offers.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/vasastore/storefront-client/client"
	"github.com/vasastore/storefront-client/logger"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/normalize"
	"github.com/vasastore/storefront-client/storage"
)

type Service struct {
	api   *client.Client
	store storage.Store
}

func NewService(api *client.Client, store storage.Store) *Service {
	return &Service{api: api, store: store}
}

// Products lists the catalog, optionally filtered/paged via query params.
func (s *Service) Products(ctx context.Context, params url.Values) ([]models.Product, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/products", &client.Options{Query: params})
	if err != nil {
		return nil, err
	}
	return s.withCachedDescriptions(ctx, normalize.Products(raw)), nil
}

func (s *Service) BestSellers(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, "/products/best-sellers")
}

func (s *Service) NewArrivals(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, "/products/new-arrivals")
}

func (s *Service) SpecialOffers(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, "/products/special-offers")
}

func (s *Service) list(ctx context.Context, endpoint string) ([]models.Product, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return s.withCachedDescriptions(ctx, normalize.Products(raw)), nil
}

// ProductDetails fetches one product. Backend records sometimes ship without
// a description; a previously seen description is kept as a local stopgap
// and substituted when the field comes back empty.
func (s *Service) ProductDetails(ctx context.Context, id int) (models.Product, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	if err != nil {
		return models.Product{}, err
	}

	product := normalize.ProductResponse(raw)
	if product.Description != "" {
		if err := s.store.SetProductDescription(ctx, product.ID, product.Description); err != nil {
			logger.Warn("failed to cache product description", zap.Error(err))
		}
		return product, nil
	}

	if cached, err := s.store.ProductDescription(ctx, product.ID); err == nil && cached != "" {
		product.Description = cached
	}
	return product, nil
}

func (s *Service) withCachedDescriptions(ctx context.Context, products []models.Product) []models.Product {
	for i := range products {
		if products[i].Description != "" {
			continue
		}
		if cached, err := s.store.ProductDescription(ctx, products[i].ID); err == nil && cached != "" {
			products[i].Description = cached
		}
	}
	return products
}
