package biz

import (
	"context"
	"strings"

	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/policy"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type StoreServiceParams struct {
	fx.In

	Store     *storage.Client
	Ownership *OwnershipService
}

type StoreService struct {
	*AbstractService

	Ownership *OwnershipService
}

func NewStoreService(params StoreServiceParams) *StoreService {
	return &StoreService{
		AbstractService: &AbstractService{store: params.Store},
		Ownership:       params.Ownership,
	}
}

// StoreInput is the client-settable part of a store. The vendor is always
// the acting principal, never taken from the payload.
type StoreInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateStore opens a new store owned by the acting vendor.
func (s *StoreService) CreateStore(ctx context.Context, input StoreInput) (*objects.Store, error) {
	principal := authz.PrincipalFromContext(ctx)

	if decision := policy.CanWrite(ctx, principal, objects.RoleVendor, policy.Unowned()); !decision.Allowed {
		return nil, denialError(decision)
	}

	store := &objects.Store{
		VendorID:    principal.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	if err := validateStore(store); err != nil {
		return nil, err
	}

	id, err := s.store.CreateStore(ctx, store)
	if err != nil {
		log.Error(ctx, "failed to create store", log.Cause(err))
		return nil, ErrInternal
	}

	store.ID = id

	log.Info(ctx, "store created", log.Int("store_id", id), log.Int("vendor_id", principal.ID))

	return store, nil
}

// UpdateStore changes a store's name or description. Only the owner, or
// staff, may touch it; the vendor reference never changes.
func (s *StoreService) UpdateStore(ctx context.Context, id int, input StoreInput) (*objects.Store, error) {
	principal := authz.PrincipalFromContext(ctx)

	store, resource, err := s.Ownership.StoreResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if decision := policy.CanWrite(ctx, principal, objects.RoleVendor, resource); !decision.Allowed {
		return nil, denialError(decision)
	}

	store.Name = strings.TrimSpace(input.Name)
	store.Description = input.Description

	if err := validateStore(store); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStore(ctx, store); err != nil {
		log.Error(ctx, "failed to update store", log.Cause(err))
		return nil, ErrInternal
	}

	return store, nil
}

// DeleteStore removes a store and its products.
func (s *StoreService) DeleteStore(ctx context.Context, id int) error {
	principal := authz.PrincipalFromContext(ctx)

	_, resource, err := s.Ownership.StoreResource(ctx, id)
	if err != nil {
		return err
	}

	if decision := policy.CanWrite(ctx, principal, objects.RoleVendor, resource); !decision.Allowed {
		return denialError(decision)
	}

	if err := s.store.DeleteStore(ctx, id); err != nil {
		log.Error(ctx, "failed to delete store", log.Cause(err))
		return ErrInternal
	}

	log.Info(ctx, "store deleted", log.Int("store_id", id))

	return nil
}

// GetStore is a public read.
func (s *StoreService) GetStore(ctx context.Context, id int) (*objects.Store, error) {
	return s.store.StoreByID(ctx, id)
}

// ListStores is a public read of the whole catalog.
func (s *StoreService) ListStores(ctx context.Context) ([]objects.Store, error) {
	return s.store.Stores(ctx)
}

// StoresByVendor is a public read of one vendor's stores.
func (s *StoreService) StoresByVendor(ctx context.Context, vendorID int) ([]objects.Store, error) {
	return s.store.StoresByVendor(ctx, vendorID)
}
