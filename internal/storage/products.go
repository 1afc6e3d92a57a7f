package storage

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/shopspring/decimal"

	"github.com/PerryRichardson/storefront/internal/objects"
)

const productTable = "products"

var productColumns = []string{"id", "store_id", "name", "price", "stock"}

// CreateProduct inserts a product and returns its id.
func (c *Client) CreateProduct(ctx context.Context, product *objects.Product) (int, error) {
	return c.insertID(ctx, c.builder().
		Insert(productTable).
		Columns("store_id", "name", "price", "stock").
		Values(product.StoreID, product.Name, product.Price.String(), product.Stock))
}

// UpdateProduct rewrites the mutable columns. The store reference is
// immutable and deliberately absent from the SET list.
func (c *Client) UpdateProduct(ctx context.Context, product *objects.Product) error {
	query, args := c.builder().
		Update(productTable).
		Set("name", product.Name).
		Set("price", product.Price.String()).
		Set("stock", product.Stock).
		Where(entsql.EQ("id", product.ID)).
		Query()

	return c.exec(ctx, query, args)
}

// SetProductStock writes the stock column alone, used by the order
// transactor on rows it holds locks for.
func (c *Client) SetProductStock(ctx context.Context, productID, stock int) error {
	query, args := c.builder().
		Update(productTable).
		Set("stock", stock).
		Where(entsql.EQ("id", productID)).
		Query()

	return c.exec(ctx, query, args)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	query, args := c.builder().
		Delete(productTable).
		Where(entsql.EQ("id", id)).
		Query()

	return c.exec(ctx, query, args)
}

// ProductByID fetches one product.
func (c *Client) ProductByID(ctx context.Context, id int) (*objects.Product, error) {
	products, err := c.selectProducts(ctx, entsql.EQ("id", id), false)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, &NotFoundError{Entity: "product", ID: id}
	}

	return &products[0], nil
}

// Products lists the whole catalog, optionally filtered by a name-contains
// search term.
func (c *Client) Products(ctx context.Context, search string) ([]objects.Product, error) {
	var pred *entsql.Predicate
	if search != "" {
		pred = entsql.ContainsFold("name", search)
	}

	return c.selectProducts(ctx, pred, false)
}

// ProductsByStore lists one store's products, optionally filtered by a
// name-contains search term.
func (c *Client) ProductsByStore(ctx context.Context, storeID int, search string) ([]objects.Product, error) {
	pred := entsql.EQ("store_id", storeID)
	if search != "" {
		pred = entsql.And(pred, entsql.ContainsFold("name", search))
	}

	return c.selectProducts(ctx, pred, false)
}

// ProductsByVendor lists every product across the vendor's stores.
func (c *Client) ProductsByVendor(ctx context.Context, vendorID int) ([]objects.Product, error) {
	sub := c.builder().
		Select("id").
		From(entsql.Table(storeTable)).
		Where(entsql.EQ("vendor_id", vendorID))

	return c.selectProducts(ctx, entsql.In("store_id", sub), false)
}

// ProductsForUpdate fetches the given products with exclusive row locks,
// in ascending id order so concurrent checkouts acquire locks in the same
// order. Must run inside a transaction.
func (c *Client) ProductsForUpdate(ctx context.Context, ids []int) ([]objects.Product, error) {
	if TxFromContext(ctx) == nil {
		return nil, fmt.Errorf("storage: ProductsForUpdate requires a transaction")
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return c.selectProducts(ctx, entsql.In("id", args...), true)
}

func (c *Client) selectProducts(ctx context.Context, pred *entsql.Predicate, forUpdate bool) ([]objects.Product, error) {
	selector := c.builder().
		Select(productColumns...).
		From(entsql.Table(productTable))

	if pred != nil {
		selector.Where(pred)
	}

	if forUpdate {
		selector.OrderBy("id")

		if c.supportsRowLocks() {
			selector.ForUpdate()
		}
	} else {
		selector.OrderBy("name")
	}

	query, args := selector.Query()

	var products []objects.Product

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		product, err := scanProduct(rows)
		if err != nil {
			return err
		}

		products = append(products, *product)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

func scanProduct(rows *entsql.Rows) (*objects.Product, error) {
	var (
		product objects.Product
		price   string
	)

	if err := rows.Scan(&product.ID, &product.StoreID, &product.Name, &price, &product.Stock); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("storage: decode price: %w", err)
	}

	product.Price = parsed

	return &product, nil
}
