package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasastore/storefront-client/client"
	"github.com/vasastore/storefront-client/config"
	"github.com/vasastore/storefront-client/storage"
)

func newService(baseURL string) *Service {
	api := client.New(config.Config{APIBaseURL: baseURL})
	return NewService(api, storage.NewMemory())
}

func TestProducts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - passes query parameters through", func(t *testing.T) {
		router := gin.New()
		router.GET("/products", func(c *gin.Context) {
			assert.Equal(t, "women", c.Query("category"))
			c.JSON(http.StatusOK, gin.H{"products": []gin.H{
				{"id": 1, "name": "Rose 31", "price": 120.0},
				{"id": 2, "name": "Santal 33", "price": 150.0},
			}})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		svc := newService(server.URL)
		params := url.Values{"category": {"women"}}
		products, err := svc.Products(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Rose 31", products[0].Name)
	})
}

func TestProductDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - remembers a description and substitutes it when the field comes back empty", func(t *testing.T) {
		var withDescription atomic.Bool
		withDescription.Store(true)

		router := gin.New()
		router.GET("/products/:id", func(c *gin.Context) {
			p := gin.H{"id": 6, "name": "Oud Wood", "price": 200.0}
			if withDescription.Load() {
				p["description"] = "Rare oud with sandalwood"
			}
			c.JSON(http.StatusOK, gin.H{"product": p})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		svc := newService(server.URL)

		product, err := svc.ProductDetails(context.Background(), 6)
		require.NoError(t, err)
		assert.Equal(t, "Rare oud with sandalwood", product.Description)

		withDescription.Store(false)

		product, err = svc.ProductDetails(context.Background(), 6)
		require.NoError(t, err)
		assert.Equal(t, "Rare oud with sandalwood", product.Description)
	})

	t.Run("Success - nothing cached leaves the description empty", func(t *testing.T) {
		router := gin.New()
		router.GET("/products/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"product": gin.H{"id": 7, "name": "Neroli", "price": 80.0}})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		svc := newService(server.URL)
		product, err := svc.ProductDetails(context.Background(), 7)
		require.NoError(t, err)
		assert.Empty(t, product.Description)
	})
}

func TestListEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/products/best-sellers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"best_sellers": []gin.H{{"id": 1, "name": "A", "price": 10.0}}})
	})
	router.GET("/products/new-arrivals", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 2, "name": "B", "price": 20.0}})
	})
	router.GET("/products/special-offers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"special_offers": []gin.H{{"id": 3, "name": "C", "original_price": 30.0, "discount_percentage": 50}}})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	svc := newService(server.URL)

	best, err := svc.BestSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, best, 1)

	arrivals, err := svc.NewArrivals(context.Background())
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, 2, arrivals[0].ID)

	offers, err := svc.SpecialOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 15.0, offers[0].Price)
}
