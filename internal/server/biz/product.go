package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
	"github.com/PerryRichardson/storefront/internal/policy"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type ProductServiceParams struct {
	fx.In

	CacheConfig xcache.Config
	Store       *storage.Client
	Ownership   *OwnershipService
	Notify      *notify.Service
}

type ProductService struct {
	*AbstractService

	Ownership    *OwnershipService
	Notify       *notify.Service
	ProductCache xcache.Cache[objects.Product]
}

func NewProductService(params ProductServiceParams) (*ProductService, error) {
	cache, err := xcache.NewFromConfig[objects.Product](params.CacheConfig)
	if err != nil {
		return nil, err
	}

	return &ProductService{
		AbstractService: &AbstractService{store: params.Store},
		Ownership:       params.Ownership,
		Notify:          params.Notify,
		ProductCache:    cache,
	}, nil
}

// Stock moves at checkout without passing through this service, so cached
// reads are kept short-lived.
const productCacheTTL = time.Minute

func productCacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

// ProductInput is a full product payload for create and update. The store is
// bound at creation and rejected as a change afterwards.
type ProductInput struct {
	StoreID int             `json:"store_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
}

// CreateProduct adds a product to one of the principal's stores. Writing the
// initial price is still a price mutation, so the price scope is required.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*objects.Product, error) {
	principal := authz.PrincipalFromContext(ctx)

	store, resource, err := s.Ownership.StoreResource(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	if decision := policy.CanMutateField(ctx, principal, "price", resource); !decision.Allowed {
		return nil, denialError(decision)
	}

	product := &objects.Product{
		StoreID: input.StoreID,
		Name:    strings.TrimSpace(input.Name),
		Price:   input.Price,
		Stock:   input.Stock,
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	id, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		log.Error(ctx, "failed to create product", log.Cause(err))
		return nil, ErrInternal
	}

	product.ID = id

	log.Info(ctx, "product created", log.Int("product_id", id), log.Int("store_id", input.StoreID))

	s.Notify.ProductCreated(ctx, product, store)

	return product, nil
}

// UpdateProduct applies a full-payload update. The store transition rule
// runs first, before any identity rule, so even staff cannot move a product
// between stores. Then each changed field is checked on its own: price
// changes need the price scope on top of ownership.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, input ProductInput) (*objects.Product, error) {
	principal := authz.PrincipalFromContext(ctx)

	product, resource, err := s.Ownership.ProductResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.StoreID != 0 {
		if decision := policy.CanTransitionStore(ctx, principal, product, input.StoreID); !decision.Allowed {
			return nil, denialError(decision)
		}
	}

	for _, field := range changedFields(product, input) {
		if decision := policy.CanMutateField(ctx, principal, field, resource); !decision.Allowed {
			return nil, denialError(decision)
		}
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Price = input.Price
	product.Stock = input.Stock

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		log.Error(ctx, "failed to update product", log.Cause(err))
		return nil, ErrInternal
	}

	s.dropCached(ctx, id)

	return product, nil
}

func (s *ProductService) dropCached(ctx context.Context, id int) {
	if err := s.ProductCache.Delete(ctx, productCacheKey(id)); err != nil {
		log.Warn(ctx, "failed to drop cached product", log.Int("product_id", id), log.Cause(err))
	}
}

// changedFields diffs the stored product against the payload. Unchanged
// fields carry no permission cost, so an owner without the price scope can
// still update stock while echoing back the current price.
func changedFields(existing *objects.Product, input ProductInput) []string {
	var fields []string

	if strings.TrimSpace(input.Name) != existing.Name {
		fields = append(fields, "name")
	}

	if !input.Price.Equal(existing.Price) {
		fields = append(fields, "price")
	}

	if input.Stock != existing.Stock {
		fields = append(fields, "stock")
	}

	if len(fields) == 0 {
		// Everything equal is still a write on the resource.
		fields = append(fields, "name")
	}

	return fields
}

// DeleteProduct removes a product. Owner or staff only.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	principal := authz.PrincipalFromContext(ctx)

	_, resource, err := s.Ownership.ProductResource(ctx, id)
	if err != nil {
		return err
	}

	if decision := policy.CanWrite(ctx, principal, objects.RoleVendor, resource); !decision.Allowed {
		return denialError(decision)
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		log.Error(ctx, "failed to delete product", log.Cause(err))
		return ErrInternal
	}

	s.dropCached(ctx, id)

	log.Info(ctx, "product deleted", log.Int("product_id", id))

	return nil
}

// GetProduct is a public read, served through the cache when possible.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*objects.Product, error) {
	key := productCacheKey(id)

	if cached, err := s.ProductCache.Get(ctx, key); err == nil && cached.ID == id {
		return &cached, nil
	}

	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ProductCache.Set(ctx, key, *product, xcache.WithExpiration(productCacheTTL)); err != nil {
		log.Warn(ctx, "failed to cache product", log.Int("product_id", id), log.Cause(err))
	}

	return product, nil
}

// ListProducts is a public catalog read with optional name search.
func (s *ProductService) ListProducts(ctx context.Context, search string) ([]objects.Product, error) {
	return s.store.Products(ctx, search)
}

// ProductsByStore is a public read of one store's products.
func (s *ProductService) ProductsByStore(ctx context.Context, storeID int, search string) ([]objects.Product, error) {
	if _, err := s.store.StoreByID(ctx, storeID); err != nil {
		return nil, err
	}

	return s.store.ProductsByStore(ctx, storeID, search)
}
