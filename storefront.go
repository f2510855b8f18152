// Package storefront is the client data synchronization layer for the
// storefront REST backend: a gateway client, response normalization, session
// and cart state containers, and the event bus that keeps cached review
// aggregates consistent across UI surfaces.
package storefront

import (
	"github.com/vasastore/storefront-client/admin"
	"github.com/vasastore/storefront-client/cart"
	"github.com/vasastore/storefront-client/catalog"
	"github.com/vasastore/storefront-client/client"
	"github.com/vasastore/storefront-client/config"
	"github.com/vasastore/storefront-client/events"
	"github.com/vasastore/storefront-client/logger"
	"github.com/vasastore/storefront-client/orders"
	"github.com/vasastore/storefront-client/reviews"
	"github.com/vasastore/storefront-client/session"
	"github.com/vasastore/storefront-client/storage"
)

// SDK bundles the sync layer's components, wired together. Cart listens to
// Session's identity; nothing listens to Cart.
type SDK struct {
	Config  config.Config
	API     *client.Client
	Store   storage.Store
	Bus     *events.Bus
	Session *session.Manager
	Cart    *cart.Container
	Catalog *catalog.Service
	Reviews *reviews.Service
	Orders  *orders.Service
	Admin   *admin.Service
}

// New builds an SDK from the given configuration. With REDIS_URL set the
// durable slots live in Redis; otherwise they are in-memory and last for the
// lifetime of the process, which matches a single browser session.
func New(cfg config.Config) (*SDK, error) {
	logger.Initialize(cfg.Env)

	var store storage.Store
	if cfg.RedisURL != "" {
		redisClient, err := storage.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = storage.NewRedis(redisClient, cfg.StoreNamespace, cfg.SnapshotTTL)
	} else {
		store = storage.NewMemory()
	}

	api := client.New(cfg)
	bus := events.NewBus()
	sessions := session.NewManager(api, store)

	return &SDK{
		Config:  cfg,
		API:     api,
		Store:   store,
		Bus:     bus,
		Session: sessions,
		Cart:    cart.NewContainer(api, sessions, store),
		Catalog: catalog.NewService(api, store),
		Reviews: reviews.NewService(api, bus),
		Orders:  orders.NewService(api),
		Admin:   admin.NewService(api),
	}, nil
}
