// Package cart keeps per-user shopping carts. Carts are transient session
// state, not orders, so they live in the cache backend: in-process memory by
// default, redis when checkout must survive restarts or span instances.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
)

// Config selects the cart backend. Mode defaults to memory; an idle cart
// expires after Expiration.
type Config struct {
	Cache      xcache.Config `conf:"cache" yaml:"cache" json:"cache"`
	Expiration time.Duration `conf:"expiration" yaml:"expiration" json:"expiration"`
}

// Service loads and stores carts keyed by user id.
type Service struct {
	cache      xcache.Cache[objects.Cart]
	expiration time.Duration
}

func New(cfg Config) (*Service, error) {
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = xcache.ModeMemory
	}

	expiration := cfg.Expiration
	if expiration == 0 {
		expiration = 24 * time.Hour
	}

	cfg.Cache.Memory.Expiration = expiration
	cfg.Cache.Redis.Expiration = expiration

	cache, err := xcache.NewFromConfig[objects.Cart](cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}

	return &Service{cache: cache, expiration: expiration}, nil
}

// NewWithCache wires an existing cache, used by tests.
func NewWithCache(cache xcache.Cache[objects.Cart], expiration time.Duration) *Service {
	return &Service{cache: cache, expiration: expiration}
}

// Get returns the user's cart. A missing cart is an empty one.
func (s *Service) Get(ctx context.Context, userID int) (objects.Cart, error) {
	cart, err := s.cache.Get(ctx, key(userID))
	if err != nil {
		var notFound *store.NotFound
		if errors.As(err, &notFound) {
			return objects.Cart{}, nil
		}

		return nil, fmt.Errorf("cart: load: %w", err)
	}

	if cart == nil {
		cart = objects.Cart{}
	}

	return cart, nil
}

// Add puts qty units of a product in the cart, on top of what is already
// there. Quantities below one floor to one.
func (s *Service) Add(ctx context.Context, userID, productID, qty int) (objects.Cart, error) {
	return s.mutate(ctx, userID, func(cart objects.Cart) {
		cart.Add(productID, qty)
	})
}

// SetQty replaces a product's quantity. Zero or negative removes the line.
func (s *Service) SetQty(ctx context.Context, userID, productID, qty int) (objects.Cart, error) {
	return s.mutate(ctx, userID, func(cart objects.Cart) {
		cart.SetQty(productID, qty)
	})
}

// Remove drops a product from the cart.
func (s *Service) Remove(ctx context.Context, userID, productID int) (objects.Cart, error) {
	return s.mutate(ctx, userID, func(cart objects.Cart) {
		cart.SetQty(productID, 0)
	})
}

// Clear empties the cart. Checkout calls this after the order commits.
func (s *Service) Clear(ctx context.Context, userID int) error {
	if err := s.cache.Delete(ctx, key(userID)); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}

	return nil
}

func (s *Service) mutate(ctx context.Context, userID int, fn func(cart objects.Cart)) (objects.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	fn(cart)

	if err := s.cache.Set(ctx, key(userID), cart, store.WithExpiration(s.expiration)); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}

	return cart, nil
}

func key(userID int) string {
	return fmt.Sprintf("cart:%d", userID)
}
