package biz

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/policy"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type OrderServiceParams struct {
	fx.In

	Store  *storage.Client
	Cart   *cart.Service
	Notify *notify.Service
}

type OrderService struct {
	*AbstractService

	Cart   *cart.Service
	Notify *notify.Service
}

func NewOrderService(params OrderServiceParams) *OrderService {
	return &OrderService{
		AbstractService: &AbstractService{store: params.Store},
		Cart:            params.Cart,
		Notify:          params.Notify,
	}
}

// PlaceOrder turns the principal's cart into a paid order, atomically.
// Every product in the cart is locked in ascending id order, stock is
// checked and decremented under the lock, and the order plus its lines
// commit together. Any insufficient line aborts the whole transaction; no
// partial fulfillment. Prices are snapshotted into the lines at this moment.
// The invoice goes out after commit and its failure cannot undo the order.
func (s *OrderService) PlaceOrder(ctx context.Context) (*objects.Order, error) {
	principal := authz.PrincipalFromContext(ctx)

	if decision := policy.CanWrite(ctx, principal, objects.RoleBuyer, policy.Unowned()); !decision.Allowed {
		return nil, denialError(decision)
	}

	userCart, err := s.Cart.Get(ctx, principal.ID)
	if err != nil {
		log.Error(ctx, "failed to load cart", log.Cause(err))
		return nil, ErrInternal
	}

	if userCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	var order *objects.Order

	err = s.RunInTransaction(ctx, func(txCtx context.Context) error {
		order, err = s.placeLocked(txCtx, principal.ID, userCart)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.Cart.Clear(ctx, principal.ID); err != nil {
		// The order is committed; a stale cart is recoverable.
		log.Warn(ctx, "failed to clear cart after checkout", log.Int("user_id", principal.ID), log.Cause(err))
	}

	log.Info(ctx, "order placed",
		log.Int("order_id", order.ID),
		log.Int("user_id", principal.ID),
		log.String("total", order.Total.String()),
	)

	if buyer, err := s.store.UserByID(ctx, principal.ID); err == nil {
		s.Notify.OrderPlaced(ctx, buyer, order)
	}

	return order, nil
}

func (s *OrderService) placeLocked(ctx context.Context, userID int, userCart objects.Cart) (*objects.Order, error) {
	ids := userCart.ProductIDs()

	products, err := s.store.ProductsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*objects.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, &storage.NotFoundError{Entity: "product", ID: id}
		}

		if qty := userCart[id]; qty > product.Stock {
			return nil, &InsufficientStockError{
				ProductID: id,
				Requested: qty,
				Available: product.Stock,
			}
		}
	}

	order := &objects.Order{
		UserID: userID,
		Total:  decimal.Zero,
		Status: objects.OrderStatusPaid,
	}

	for _, id := range ids {
		order.Total = order.Total.Add(byID[id].Price.Mul(decimal.NewFromInt(int64(userCart[id]))))
	}

	orderID, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	order.ID = orderID

	for _, id := range ids {
		product := byID[id]
		line := &objects.OrderLine{
			OrderID:       orderID,
			ProductID:     id,
			Qty:           userCart[id],
			PriceSnapshot: product.Price,
		}

		lineID, err := s.store.CreateOrderLine(ctx, line)
		if err != nil {
			return nil, err
		}

		line.ID = lineID
		order.Lines = append(order.Lines, *line)

		if err := s.store.SetProductStock(ctx, id, product.Stock-line.Qty); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Orders lists the principal's order history, newest first.
func (s *OrderService) Orders(ctx context.Context) ([]objects.Order, error) {
	principal := authz.PrincipalFromContext(ctx)

	if !principal.Authenticated {
		return nil, ErrAuthenticationRequired
	}

	return s.store.OrdersByUser(ctx, principal.ID)
}

// GetOrder loads one order. Only its buyer, or staff, may see it; anyone
// else gets not found rather than a confirmation the order exists.
func (s *OrderService) GetOrder(ctx context.Context, id int) (*objects.Order, error) {
	principal := authz.PrincipalFromContext(ctx)

	if !principal.Authenticated {
		return nil, ErrAuthenticationRequired
	}

	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != principal.ID && !principal.Staff {
		return nil, &storage.NotFoundError{Entity: "order", ID: id}
	}

	return order, nil
}
