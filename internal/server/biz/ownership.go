package biz

import (
	"context"

	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/policy"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type OwnershipServiceParams struct {
	fx.In

	Store *storage.Client
}

// OwnershipService resolves who owns a resource so policy checks can compare
// against the acting principal. Ownership is transitive: a product belongs
// to its store's vendor, the product row itself has no owner column.
type OwnershipService struct {
	*AbstractService
}

func NewOwnershipService(params OwnershipServiceParams) *OwnershipService {
	return &OwnershipService{
		AbstractService: &AbstractService{store: params.Store},
	}
}

// StoreResource loads a store and adapts it for the policy engine.
func (s *OwnershipService) StoreResource(ctx context.Context, storeID int) (*objects.Store, policy.Resource, error) {
	store, err := s.store.StoreByID(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}

	return store, policy.OwnedBy(store.VendorID), nil
}

// ProductResource loads a product and resolves its owner through the parent
// store. A dangling store reference surfaces as not found, the same as a
// missing product.
func (s *OwnershipService) ProductResource(ctx context.Context, productID int) (*objects.Product, policy.Resource, error) {
	product, err := s.store.ProductByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	store, err := s.store.StoreByID(ctx, product.StoreID)
	if err != nil {
		return nil, nil, err
	}

	return product, policy.OwnedBy(store.VendorID), nil
}

// ProductOwnerID resolves just the owning vendor id of a product.
func (s *OwnershipService) ProductOwnerID(ctx context.Context, productID int) (int, error) {
	_, resource, err := s.ProductResource(ctx, productID)
	if err != nil {
		return 0, err
	}

	ownerID, _ := resource.OwnerPrincipalID()

	return ownerID, nil
}
