package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasastore/storefront-client/config"
	apperrors "github.com/vasastore/storefront-client/errors"
)

func testClient(baseURL string) *Client {
	return New(config.Config{APIBaseURL: baseURL})
}

func fakeToken() string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":7,"username":"ana","role_id":2}`))
	return header + "." + payload + ".signature"
}

func TestRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - returns raw JSON body", func(t *testing.T) {
		router := gin.New()
		router.GET("/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"products": []gin.H{{"id": 1}}})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		raw, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/products", nil)

		require.NoError(t, err)
		assert.Contains(t, string(raw), `"products"`)
	})

	t.Run("Failure - server message becomes the error message", func(t *testing.T) {
		router := gin.New()
		router.POST("/cart", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodPost, "/cart", &Options{Body: gin.H{}})

		var apiErr *APIError
		require.True(t, As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "quantity must be positive", apiErr.Message)
	})

	t.Run("Failure - body without message field is stringified", func(t *testing.T) {
		router := gin.New()
		router.GET("/orders", func(c *gin.Context) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": gin.H{"status": "unknown"}})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/orders", nil)

		var apiErr *APIError
		require.True(t, As(err, &apiErr))
		assert.Contains(t, apiErr.Message, `"fields"`)
		assert.NotContains(t, apiErr.Message, "object Object")
	})

	t.Run("Failure - connection refused maps to network unavailable", func(t *testing.T) {
		server := httptest.NewServer(gin.New())
		server.Close() // nothing listening anymore

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/products", nil)

		assert.True(t, errors.Is(err, apperrors.ErrNetworkUnavailable))
	})
}

func TestCredentialNormalization(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEchoServer := func(got *string) *httptest.Server {
		router := gin.New()
		router.GET("/user/details", func(c *gin.Context) {
			*got = c.GetHeader("Authorization")
			c.JSON(http.StatusOK, gin.H{})
		})
		return httptest.NewServer(router)
	}

	t.Run("three-segment token passes through raw", func(t *testing.T) {
		var got string
		server := newEchoServer(&got)
		defer server.Close()

		token := fakeToken()
		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/user/details", &Options{Token: token})

		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("opaque credential gets Bearer prefix", func(t *testing.T) {
		var got string
		server := newEchoServer(&got)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/user/details", &Options{Token: "opaque-session-key"})

		require.NoError(t, err)
		assert.Equal(t, "Bearer opaque-session-key", got)
	})

	t.Run("existing Bearer prefix is left alone", func(t *testing.T) {
		var got string
		server := newEchoServer(&got)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/user/details", &Options{Token: "Bearer already-prefixed"})

		require.NoError(t, err)
		assert.Equal(t, "Bearer already-prefixed", got)
	})
}

func TestRawTokenRetry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("retries once without Bearer when the server asks for a raw token", func(t *testing.T) {
		var hits atomic.Int32
		router := gin.New()
		router.GET("/admin/orders", func(c *gin.Context) {
			hits.Add(1)
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "raw token expected in Authorization header"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"orders": []gin.H{}})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		// An opaque credential gets the Bearer prefix on the first attempt.
		raw, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/admin/orders", &Options{Token: "opaque-admin-key"})

		require.NoError(t, err)
		assert.Contains(t, string(raw), "orders")
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("does not retry a 401 without the raw token signal", func(t *testing.T) {
		var hits atomic.Int32
		router := gin.New()
		router.GET("/orders", func(c *gin.Context) {
			hits.Add(1)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/orders", &Options{Token: "opaque-key"})

		var apiErr *APIError
		require.True(t, As(err, &apiErr))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("does not retry when the original request already used a raw token", func(t *testing.T) {
		var hits atomic.Int32
		router := gin.New()
		router.GET("/orders", func(c *gin.Context) {
			hits.Add(1)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "raw token expected"})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		_, err := testClient(server.URL).Request(context.Background(), http.MethodGet, "/orders", &Options{Token: fakeToken()})

		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestBodyEncoding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("multipart form leaves the boundary to the encoder", func(t *testing.T) {
		var contentType, rating, comment string
		router := gin.New()
		router.POST("/products/1/reviews", func(c *gin.Context) {
			contentType = c.GetHeader("Content-Type")
			rating = c.PostForm("rating")
			comment = c.PostForm("comment")
			c.JSON(http.StatusCreated, gin.H{"message": "created"})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		form := NewMultipart().AddField("rating", "5").AddField("comment", "lovely")
		_, err := testClient(server.URL).Request(context.Background(), http.MethodPost, "/products/1/reviews", &Options{Multipart: form})

		require.NoError(t, err)
		assert.Contains(t, contentType, "multipart/form-data; boundary=")
		assert.Equal(t, "5", rating)
		assert.Equal(t, "lovely", comment)
	})

	t.Run("form values are url-encoded", func(t *testing.T) {
		var contentType, id string
		router := gin.New()
		router.DELETE("/admin/products", func(c *gin.Context) {
			contentType = c.GetHeader("Content-Type")
			id = c.PostForm("id")
			c.JSON(http.StatusOK, gin.H{})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		form := map[string][]string{"id": {"42"}}
		_, err := testClient(server.URL).Request(context.Background(), http.MethodDelete, "/admin/products", &Options{Form: form})

		require.NoError(t, err)
		assert.Equal(t, "application/x-www-form-urlencoded", contentType)
		assert.Equal(t, "42", id)
	})

	t.Run("JSON body round-trips", func(t *testing.T) {
		var received map[string]any
		router := gin.New()
		router.POST("/cart", func(c *gin.Context) {
			_ = c.ShouldBindJSON(&received)
			c.JSON(http.StatusOK, gin.H{})
		})
		server := httptest.NewServer(router)
		defer server.Close()

		body := map[string]any{"items": []map[string]any{{"product_id": 42, "quantity": 1}}}
		_, err := testClient(server.URL).Request(context.Background(), http.MethodPost, "/cart", &Options{Body: body})

		require.NoError(t, err)
		data, _ := json.Marshal(received)
		assert.Contains(t, string(data), `"product_id":42`)
	})
}
