package storage

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xtime"
)

const (
	orderTable     = "orders"
	orderLineTable = "order_lines"
)

var (
	orderColumns     = []string{"id", "user_id", "total", "status", "created_at"}
	orderLineColumns = []string{"id", "order_id", "product_id", "qty", "price_snapshot"}
)

// CreateOrder inserts the order header and returns its id. Callers run this
// inside the placement transaction together with the line inserts and stock
// decrements.
func (c *Client) CreateOrder(ctx context.Context, order *objects.Order) (int, error) {
	return c.insertID(ctx, c.builder().
		Insert(orderTable).
		Columns("user_id", "total", "status", "created_at").
		Values(order.UserID, order.Total.String(), order.Status, xtime.Now()))
}

// CreateOrderLine inserts one line of an order.
func (c *Client) CreateOrderLine(ctx context.Context, line *objects.OrderLine) (int, error) {
	return c.insertID(ctx, c.builder().
		Insert(orderLineTable).
		Columns("order_id", "product_id", "qty", "price_snapshot").
		Values(line.OrderID, line.ProductID, line.Qty, line.PriceSnapshot.String()))
}

// OrderByID loads an order with its lines.
func (c *Client) OrderByID(ctx context.Context, id int) (*objects.Order, error) {
	orders, err := c.selectOrders(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}

	return &orders[0], nil
}

// OrdersByUser lists a user's orders with lines, newest first.
func (c *Client) OrdersByUser(ctx context.Context, userID int) ([]objects.Order, error) {
	return c.selectOrders(ctx, entsql.EQ("user_id", userID))
}

// HasPurchased reports whether the user has an order containing the product.
// Review verification derives from this.
func (c *Client) HasPurchased(ctx context.Context, userID, productID int) (bool, error) {
	ordersT := entsql.Table(orderTable)
	linesT := entsql.Table(orderLineTable)

	query, args := c.builder().
		Select(linesT.C("id")).
		From(linesT).
		Join(ordersT).
		On(linesT.C("order_id"), ordersT.C("id")).
		Where(entsql.And(
			entsql.EQ(ordersT.C("user_id"), userID),
			entsql.EQ(linesT.C("product_id"), productID),
		)).
		Limit(1).
		Query()

	found := false

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		found = true

		var id int

		return rows.Scan(&id)
	})

	return found, err
}

func (c *Client) selectOrders(ctx context.Context, p *entsql.Predicate) ([]objects.Order, error) {
	query, args := c.builder().
		Select(orderColumns...).
		From(entsql.Table(orderTable)).
		Where(p).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()

	var orders []objects.Order

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		var (
			order objects.Order
			total string
		)

		if err := rows.Scan(&order.ID, &order.UserID, &total, &order.Status, &order.CreatedAt); err != nil {
			return err
		}

		parsed, err := objects.ParseDecimal(total)
		if err != nil {
			return err
		}

		order.Total = parsed
		orders = append(orders, order)

		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := c.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}

		orders[i].Lines = lines
	}

	return orders, nil
}

func (c *Client) orderLines(ctx context.Context, orderID int) ([]objects.OrderLine, error) {
	query, args := c.builder().
		Select(orderLineColumns...).
		From(entsql.Table(orderLineTable)).
		Where(entsql.EQ("order_id", orderID)).
		OrderBy(entsql.Asc("id")).
		Query()

	var lines []objects.OrderLine

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		var (
			line  objects.OrderLine
			price string
		)

		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Qty, &price); err != nil {
			return err
		}

		parsed, err := objects.ParseDecimal(price)
		if err != nil {
			return err
		}

		line.PriceSnapshot = parsed
		lines = append(lines, line)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}
