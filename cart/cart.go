// Package cart keeps a local line sequence synchronized with the backend
// cart. Local guesses are optimistic; after any failure the container falls
// back to an authoritative refetch instead of reconstructing state by hand.
package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/logger"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/normalize"
	"github.com/vasastore/storefront-client/session"
	"github.com/vasastore/storefront-client/storage"
)

// Container is the cart state container. All mutations are serialized
// through one operation lock, so the remove-then-add quantity update can
// never interleave with a concurrent mutation of the same line.
type Container struct {
	api      *client.Client
	sessions *session.Manager
	store    storage.Store

	// opMu serializes mutating operations end to end, network call included.
	opMu sync.Mutex

	mu     sync.RWMutex
	lines  []models.CartLine
	userID int
	admin  bool
	// generation discards refresh results that land after an identity change.
	generation int
}

type addItemRequest struct {
	Items []addItemLine `json:"items"`
}

type addItemLine struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// NewContainer wires the container to the session manager's identity stream.
// The dependency is one-way: the cart listens to the session, never the
// reverse.
func NewContainer(api *client.Client, sessions *session.Manager, store storage.Store) *Container {
	c := &Container{
		api:      api,
		sessions: sessions,
		store:    store,
	}
	sessions.OnChange(c.handleIdentity)
	return c
}

func (c *Container) handleIdentity(s *models.Session) {
	c.mu.Lock()
	c.generation++
	gen := c.generation

	if s == nil {
		// Session absence implies an empty cart.
		c.userID = 0
		c.admin = false
		c.lines = nil
		c.mu.Unlock()
		return
	}

	c.userID = s.ID
	c.admin = s.IsAdmin()
	if c.admin {
		// Customer-only endpoints are never called for admin identities.
		c.lines = nil
		c.mu.Unlock()
		return
	}

	// Seed from the per-user snapshot so the UI has lines immediately, then
	// refresh from the authoritative source in the background.
	if saved, err := c.store.CartSnapshot(context.Background(), s.ID); err == nil && len(saved) > 0 {
		c.lines = saved
	} else {
		c.lines = nil
	}
	c.mu.Unlock()

	go func() {
		c.opMu.Lock()
		defer c.opMu.Unlock()
		if err := c.refresh(context.Background(), gen); err != nil {
			logger.Warn("cart refresh after login failed", zap.Error(err))
		}
	}()
}

// Items returns a copy of the current line sequence.
func (c *Container) Items() []models.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// TotalItems is derived from the line sequence on every read, never stored.
func (c *Container) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is derived from the line sequence on every read, never stored.
func (c *Container) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0.0
	for _, line := range c.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// requireAuth short-circuits mutating operations while Anonymous: no network
// call is attempted, callers branch on ErrAuthRequired.
func (c *Container) requireAuth() (string, int, error) {
	token := c.sessions.Token()
	current := c.sessions.Current()
	if token == "" || current == nil {
		return "", 0, apperrors.ErrAuthRequired
	}
	return token, current.ID, nil
}

// AddItem adds one unit of the product to the cart, then refetches the full
// cart: the backend's add acknowledgement is not guaranteed to reflect final
// computed totals, so the response body is not trusted.
func (c *Container) AddItem(ctx context.Context, product models.Product, size string) error {
	token, _, err := c.requireAuth()
	if err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	_, err = c.api.Request(ctx, http.MethodPost, "/cart", &client.Options{
		Token: token,
		Body: addItemRequest{Items: []addItemLine{{
			ProductID: product.ID,
			Quantity:  1,
			Size:      size,
		}}},
	})
	if err != nil {
		return err
	}
	return c.refreshCurrent(ctx)
}

// RemoveItem removes the line optimistically before the backend call so the
// UI never shows a stale row. On failure the optimistic guess is not blindly
// re-added; a full refetch resolves true state.
func (c *Container) RemoveItem(ctx context.Context, productID int, size string) error {
	token, userID, err := c.requireAuth()
	if err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	kept := c.lines[:0:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
			continue
		}
		if size != "" && line.Size != size {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	c.mu.Unlock()
	c.persist(ctx, userID)

	_, err = c.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", productID), &client.Options{Token: token})
	if err != nil {
		if refreshErr := c.refreshCurrent(ctx); refreshErr != nil {
			logger.Warn("cart refetch after failed removal also failed", zap.Error(refreshErr))
		}
		return err
	}
	return nil
}

// UpdateQuantity sets the quantity for a line. A quantity of zero or less is
// equivalent to RemoveItem. The backend exposes no partial-update endpoint,
// so this is remove-then-add; the operation lock keeps concurrent updates to
// the same line from interleaving.
func (c *Container) UpdateQuantity(ctx context.Context, productID int, size string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, productID, size)
	}

	token, userID, err := c.requireAuth()
	if err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].Size == size {
			c.lines[i].Quantity = quantity
			break
		}
	}
	c.mu.Unlock()
	c.persist(ctx, userID)

	_, err = c.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", productID), &client.Options{Token: token})
	if err == nil {
		_, err = c.api.Request(ctx, http.MethodPost, "/cart", &client.Options{
			Token: token,
			Body: addItemRequest{Items: []addItemLine{{
				ProductID: productID,
				Quantity:  quantity,
				Size:      size,
			}}},
		})
	}
	if err != nil {
		if refreshErr := c.refreshCurrent(ctx); refreshErr != nil {
			logger.Warn("cart refetch after failed update also failed", zap.Error(refreshErr))
		}
		return err
	}
	return nil
}

// Clear removes every line individually. A 404 / "not in your cart" error
// for a single line means it is already gone and is swallowed; any other
// error aborts the remaining clear and surfaces after an authoritative
// refetch.
func (c *Container) Clear(ctx context.Context) error {
	token, userID, err := c.requireAuth()
	if err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	for _, line := range c.Items() {
		_, err := c.api.Request(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", line.ProductID), &client.Options{Token: token})
		if err != nil {
			if client.IsNotFound(err) {
				logger.Debug("item already absent during clear", zap.Int("product_id", line.ProductID))
				continue
			}
			if refreshErr := c.refreshCurrent(ctx); refreshErr != nil {
				logger.Warn("cart refetch after failed clear also failed", zap.Error(refreshErr))
			}
			return err
		}
	}

	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
	c.persist(ctx, userID)
	return nil
}

// Refresh discards local guesses and replaces the line sequence with the
// backend's canonical cart.
func (c *Container) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.refreshCurrent(ctx)
}

// refreshCurrent is Refresh for callers already holding opMu.
func (c *Container) refreshCurrent(ctx context.Context) error {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()
	return c.refresh(ctx, gen)
}

func (c *Container) refresh(ctx context.Context, gen int) error {
	token, userID, err := c.requireAuth()
	if err != nil {
		return err
	}
	if c.sessions.IsAdmin() {
		return nil
	}

	raw, err := c.api.Request(ctx, http.MethodGet, "/cart", &client.Options{Token: token})
	if err != nil {
		return err
	}
	lines := normalize.CartLines(raw)

	c.mu.Lock()
	if c.generation != gen {
		// Identity changed while the fetch was in flight; discard.
		c.mu.Unlock()
		return nil
	}
	c.lines = lines
	c.mu.Unlock()
	c.persist(ctx, userID)
	return nil
}

func (c *Container) persist(ctx context.Context, userID int) {
	if userID == 0 {
		return
	}
	if err := c.store.SetCartSnapshot(ctx, userID, c.Items()); err != nil {
		logger.Warn("failed to persist cart snapshot", zap.Error(err))
	}
}
