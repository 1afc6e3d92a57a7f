package objects

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPaid is the only status the placement flow produces today.
const OrderStatusPaid = "paid"

// Order is an immutable record of a completed checkout.
type Order struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Lines     []OrderLine     `json:"lines,omitempty"`
}

// OrderLine captures one product at checkout time. PriceSnapshot is the
// product price at the moment of purchase and never changes afterwards.
type OrderLine struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"order_id"`
	ProductID     int             `json:"product_id"`
	Qty           int             `json:"qty"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
}

// LineTotal is PriceSnapshot x Qty.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.PriceSnapshot.Mul(decimal.NewFromInt(int64(l.Qty)))
}
