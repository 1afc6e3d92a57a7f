package objects

import (
	"maps"
	"slices"
)

// Cart is a product id -> quantity map. It is a plain value: the session
// storage behind it lives outside this package, and order placement takes a
// snapshot of it as input.
type Cart map[int]int

// Add increments the quantity for a product. Quantities below 1 floor to 1.
func (c Cart) Add(productID, qty int) {
	if qty < 1 {
		qty = 1
	}

	c[productID] += qty
}

// SetQty sets an explicit quantity. Zero or negative removes the entry.
func (c Cart) SetQty(productID, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}

	c[productID] = qty
}

// IsEmpty reports whether the cart has no positive-quantity entries.
func (c Cart) IsEmpty() bool {
	for _, qty := range c {
		if qty > 0 {
			return false
		}
	}

	return true
}

// ProductIDs returns the referenced product ids in ascending order. Order
// placement locks rows in this order so concurrent checkouts cannot
// deadlock on overlapping carts.
func (c Cart) ProductIDs() []int {
	ids := slices.Collect(maps.Keys(c))
	slices.Sort(ids)

	return ids
}
