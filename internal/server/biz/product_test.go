package biz

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/storage"
)

// stripScope removes a scope from a stored user so tests can model a vendor
// whose price permission was revoked.
func stripScope(t *testing.T, services *testServices, userID int, scope string) context.Context {
	t.Helper()

	user, err := services.Store.UserByID(context.Background(), userID)
	require.NoError(t, err)

	kept := make([]string, 0, len(user.Scopes))
	for _, s := range user.Scopes {
		if s != scope {
			kept = append(kept, s)
		}
	}

	user.Scopes = kept

	ctx, err := authz.WithPrincipal(context.Background(), authz.ResolvePrincipal(user))
	require.NoError(t, err)

	return ctx
}

func staffContext(t *testing.T) context.Context {
	t.Helper()

	ctx, err := authz.WithPrincipal(context.Background(), authz.ResolvePrincipal(&objects.User{
		ID:      9999,
		IsStaff: true,
	}))
	require.NoError(t, err)

	return ctx
}

func TestProductService(t *testing.T) {
	services := newTestServices(t)

	vendor := services.register(t, "paula", "vendor")
	rival := services.register(t, "pete", "vendor")

	vendorCtx := services.asUser(t, vendor.ID)
	rivalCtx := services.asUser(t, rival.ID)

	store, err := services.Stores.CreateStore(vendorCtx, StoreInput{Name: "Paula's"})
	require.NoError(t, err)

	secondStore, err := services.Stores.CreateStore(vendorCtx, StoreInput{Name: "Paula's Annex"})
	require.NoError(t, err)

	newProduct := func(t *testing.T, name string) *objects.Product {
		t.Helper()

		product, err := services.Products.CreateProduct(vendorCtx, ProductInput{
			StoreID: store.ID,
			Name:    name,
			Price:   decimal.RequireFromString("10.00"),
			Stock:   5,
		})
		require.NoError(t, err)

		return product
	}

	t.Run("create in someone else's store denied as not owner", func(t *testing.T) {
		_, err := services.Products.CreateProduct(rivalCtx, ProductInput{
			StoreID: store.ID,
			Name:    "Cuckoo",
			Price:   decimal.New(1, 0),
		})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("negative price and stock both reported", func(t *testing.T) {
		_, err := services.Products.CreateProduct(vendorCtx, ProductInput{
			StoreID: store.ID,
			Name:    "Broken",
			Price:   decimal.RequireFromString("-1"),
			Stock:   -2,
		})
		require.Error(t, err)

		invalids := InvalidValues(err)
		require.Len(t, invalids, 2)
	})

	t.Run("owner updates non-price fields without the price scope", func(t *testing.T) {
		product := newProduct(t, "Mug")
		noScopeCtx := stripScope(t, services, vendor.ID, "can_change_product_price")

		updated, err := services.Products.UpdateProduct(noScopeCtx, product.ID, ProductInput{
			StoreID: store.ID,
			Name:    "Big Mug",
			Price:   product.Price,
			Stock:   9,
		})
		require.NoError(t, err)
		require.Equal(t, "Big Mug", updated.Name)
		require.Equal(t, 9, updated.Stock)
	})

	t.Run("price change without the scope denied even for the owner", func(t *testing.T) {
		product := newProduct(t, "Plate")
		noScopeCtx := stripScope(t, services, vendor.ID, "can_change_product_price")

		_, err := services.Products.UpdateProduct(noScopeCtx, product.ID, ProductInput{
			StoreID: store.ID,
			Name:    product.Name,
			Price:   decimal.RequireFromString("12.00"),
			Stock:   product.Stock,
		})
		require.ErrorIs(t, err, ErrMissingFieldPermission)
	})

	t.Run("non-owner told not owner before any field permission", func(t *testing.T) {
		product := newProduct(t, "Bowl")

		_, err := services.Products.UpdateProduct(rivalCtx, product.ID, ProductInput{
			StoreID: store.ID,
			Name:    product.Name,
			Price:   decimal.RequireFromString("99.00"),
			Stock:   product.Stock,
		})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("store transition denied for owner and staff alike", func(t *testing.T) {
		product := newProduct(t, "Jar")

		payload := ProductInput{
			StoreID: secondStore.ID,
			Name:    product.Name,
			Price:   product.Price,
			Stock:   product.Stock,
		}

		_, err := services.Products.UpdateProduct(vendorCtx, product.ID, payload)
		require.ErrorIs(t, err, ErrStoreImmutable)

		_, err = services.Products.UpdateProduct(staffContext(t), product.ID, payload)
		require.ErrorIs(t, err, ErrStoreImmutable)
	})

	t.Run("staff updates any product", func(t *testing.T) {
		product := newProduct(t, "Vase")

		updated, err := services.Products.UpdateProduct(staffContext(t), product.ID, ProductInput{
			StoreID: store.ID,
			Name:    "Curated Vase",
			Price:   decimal.RequireFromString("20.00"),
			Stock:   product.Stock,
		})
		require.NoError(t, err)
		require.Equal(t, "Curated Vase", updated.Name)
	})

	t.Run("delete is owner gated", func(t *testing.T) {
		product := newProduct(t, "Spoon")

		require.ErrorIs(t, services.Products.DeleteProduct(rivalCtx, product.ID), ErrNotOwner)
		require.NoError(t, services.Products.DeleteProduct(vendorCtx, product.ID))

		_, err := services.Products.GetProduct(context.Background(), product.ID)
		require.True(t, storage.IsNotFound(err))
	})

	t.Run("listing a missing store is not found", func(t *testing.T) {
		_, err := services.Products.ProductsByStore(context.Background(), 55555, "")
		require.True(t, storage.IsNotFound(err))
	})
}

func TestProductReadThroughCache(t *testing.T) {
	services := newTestServices(t)

	vendor := services.register(t, "vicky", "vendor")
	vendorCtx := services.asUser(t, vendor.ID)

	store, err := services.Stores.CreateStore(vendorCtx, StoreInput{Name: "Pottery"})
	require.NoError(t, err)

	product, err := services.Products.CreateProduct(vendorCtx, ProductInput{
		StoreID: store.ID,
		Name:    "Vase",
		Price:   decimal.RequireFromString("19.90"),
		Stock:   3,
	})
	require.NoError(t, err)

	// Prime the cache.
	_, err = services.Products.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)

	t.Run("write behind the service is invisible until expiry", func(t *testing.T) {
		behind := *product
		behind.Name = "Renamed Behind"
		require.NoError(t, services.Store.UpdateProduct(context.Background(), &behind))

		cached, err := services.Products.GetProduct(context.Background(), product.ID)
		require.NoError(t, err)
		require.Equal(t, "Vase", cached.Name)
	})

	t.Run("service update drops the entry", func(t *testing.T) {
		_, err := services.Products.UpdateProduct(vendorCtx, product.ID, ProductInput{
			StoreID: store.ID,
			Name:    "Amphora",
			Price:   decimal.RequireFromString("19.90"),
			Stock:   3,
		})
		require.NoError(t, err)

		fresh, err := services.Products.GetProduct(context.Background(), product.ID)
		require.NoError(t, err)
		require.Equal(t, "Amphora", fresh.Name)
	})
}
