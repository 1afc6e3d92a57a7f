package scopes

import "slices"

// ScopeSlug represents a fine-grained capability beyond coarse role
// membership. Role membership answers "may this kind of user do this kind of
// thing"; a scope answers "may this specific user exercise this guarded
// capability".
type ScopeSlug string

// Available scopes in the system.
const (
	// ScopeChangeProductPrice guards the price field on products. Owning
	// the product is not enough to change its price; the principal must
	// also hold this scope (staff excepted).
	ScopeChangeProductPrice ScopeSlug = "can_change_product_price"
)

type Scope struct {
	Slug        ScopeSlug
	Description string
}

// scopeConfigs defines all available scopes with their configurations.
var scopeConfigs = []Scope{
	{
		Slug:        ScopeChangeProductPrice,
		Description: "Can change product price",
	},
}

// All returns every scope defined in the system.
func All() []Scope {
	out := make([]Scope, len(scopeConfigs))
	copy(out, scopeConfigs)

	return out
}

// Valid reports whether slug is a defined scope.
func Valid(slug ScopeSlug) bool {
	return slices.ContainsFunc(scopeConfigs, func(s Scope) bool {
		return s.Slug == slug
	})
}

// DefaultForVendors returns the scopes seeded onto new vendor accounts,
// mirroring the group defaults the catalog has always shipped with.
func DefaultForVendors() []string {
	return []string{string(ScopeChangeProductPrice)}
}
