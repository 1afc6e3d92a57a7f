package objects

import "github.com/shopspring/decimal"

// Store is a vendor-owned storefront.
type Store struct {
	ID          int    `json:"id"`
	VendorID    int    `json:"vendor_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product belongs to exactly one store. The store reference is immutable
// after creation.
type Product struct {
	ID      int             `json:"id"`
	StoreID int             `json:"store_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
}
