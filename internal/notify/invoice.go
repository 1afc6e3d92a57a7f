package notify

import (
	"fmt"
	"strings"

	"github.com/PerryRichardson/storefront/internal/objects"
)

// renderInvoice produces the plain-text invoice body for a committed order.
// Line prices are the checkout-time snapshots, not current catalog prices.
func renderInvoice(buyer *objects.User, order *objects.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", buyer.Username)
	fmt.Fprintf(&b, "Thanks for your order #%d.\n\n", order.ID)

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  product %d  x%d  @ %s  =  %s\n",
			line.ProductID, line.Qty,
			line.PriceSnapshot.StringFixed(2),
			line.LineTotal().StringFixed(2),
		)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", order.Total.StringFixed(2))

	return b.String()
}
