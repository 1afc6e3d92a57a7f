package storage

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/PerryRichardson/storefront/internal/objects"
)

const storeTable = "stores"

var storeColumns = []string{"id", "vendor_id", "name", "description"}

// CreateStore inserts a store and returns its id.
func (c *Client) CreateStore(ctx context.Context, store *objects.Store) (int, error) {
	return c.insertID(ctx, c.builder().
		Insert(storeTable).
		Columns("vendor_id", "name", "description").
		Values(store.VendorID, store.Name, store.Description))
}

// UpdateStore rewrites the mutable columns. The vendor reference never
// changes.
func (c *Client) UpdateStore(ctx context.Context, store *objects.Store) error {
	query, args := c.builder().
		Update(storeTable).
		Set("name", store.Name).
		Set("description", store.Description).
		Where(entsql.EQ("id", store.ID)).
		Query()

	return c.exec(ctx, query, args)
}

// DeleteStore removes a store and its products.
func (c *Client) DeleteStore(ctx context.Context, id int) error {
	query, args := c.builder().
		Delete(productTable).
		Where(entsql.EQ("store_id", id)).
		Query()
	if err := c.exec(ctx, query, args); err != nil {
		return err
	}

	query, args = c.builder().
		Delete(storeTable).
		Where(entsql.EQ("id", id)).
		Query()

	return c.exec(ctx, query, args)
}

// StoreByID fetches one store.
func (c *Client) StoreByID(ctx context.Context, id int) (*objects.Store, error) {
	stores, err := c.selectStores(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}

	if len(stores) == 0 {
		return nil, &NotFoundError{Entity: "store", ID: id}
	}

	return &stores[0], nil
}

// Stores lists every store, ordered by name for stable catalog pages.
func (c *Client) Stores(ctx context.Context) ([]objects.Store, error) {
	return c.selectStores(ctx, nil)
}

// StoresByVendor lists the stores owned by one vendor.
func (c *Client) StoresByVendor(ctx context.Context, vendorID int) ([]objects.Store, error) {
	return c.selectStores(ctx, entsql.EQ("vendor_id", vendorID))
}

func (c *Client) selectStores(ctx context.Context, pred *entsql.Predicate) ([]objects.Store, error) {
	selector := c.builder().
		Select(storeColumns...).
		From(entsql.Table(storeTable)).
		OrderBy("name")

	if pred != nil {
		selector.Where(pred)
	}

	query, args := selector.Query()

	var stores []objects.Store

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		var store objects.Store
		if err := rows.Scan(&store.ID, &store.VendorID, &store.Name, &store.Description); err != nil {
			return err
		}

		stores = append(stores, store)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stores, nil
}
