package storage

import (
	"context"
	"sync"

	"github.com/vasastore/storefront-client/models"
)

// Memory is the default Store, mirroring browser localStorage semantics
// in-process. Values survive for the lifetime of the client instance only.
type Memory struct {
	mu           sync.RWMutex
	token        string
	carts        map[int][]models.CartLine
	descriptions map[int]string
}

func NewMemory() *Memory {
	return &Memory{
		carts:        make(map[int][]models.CartLine),
		descriptions: make(map[int]string),
	}
}

func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) ClearToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *Memory) CartSnapshot(ctx context.Context, userID int) ([]models.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	saved, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	lines := make([]models.CartLine, len(saved))
	copy(lines, saved)
	return lines, nil
}

func (m *Memory) SetCartSnapshot(ctx context.Context, userID int, lines []models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]models.CartLine, len(lines))
	copy(saved, lines)
	m.carts[userID] = saved
	return nil
}

func (m *Memory) ProductDescription(ctx context.Context, productID int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.descriptions[productID], nil
}

func (m *Memory) SetProductDescription(ctx context.Context, productID int, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptions[productID] = description
	return nil
}
