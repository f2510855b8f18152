// Package storage provides the durable client-side slots the sync layer
// relies on: the single global token slot (last-write-wins), per-user cart
// snapshots, and a cached-description stopgap for products whose backend
// records lack a description.
package storage

import (
	"context"

	"github.com/vasastore/storefront-client/models"
)

// Store is the durable storage contract. Exactly one writer (the session
// manager for the token slot, the cart container for snapshots); the raw
// storage keys are never exposed to callers.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	CartSnapshot(ctx context.Context, userID int) ([]models.CartLine, error)
	SetCartSnapshot(ctx context.Context, userID int, lines []models.CartLine) error

	ProductDescription(ctx context.Context, productID int) (string, error)
	SetProductDescription(ctx context.Context, productID int, description string) error
}
