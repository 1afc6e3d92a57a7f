package policy

import (
	"context"

	"github.com/samber/lo"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/scopes"
)

// Action names the kind of operation being attempted.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsSafe reports whether the action is read-only.
func (a Action) IsSafe() bool {
	return a == ActionRead
}

// CanReadSafely reports whether the action is open to everyone. Reads on the
// catalog (stores, products, reviews) are public regardless of principal.
// It never consults state and never mutates anything.
func CanReadSafely(action Action) bool {
	return action.IsSafe()
}

// CanWrite decides a mutation on a role-gated, possibly owned resource.
// Check order is fixed so error messages stay deterministic: staff bypass,
// authentication, role membership, ownership.
func CanWrite(ctx context.Context, p authz.Principal, requiredRole objects.Role, resource Resource) Decision {
	return decided(ctx, "write", p, canWrite(p, requiredRole, resource))
}

func canWrite(p authz.Principal, requiredRole objects.Role, resource Resource) Decision {
	if p.Staff {
		return Allow()
	}

	if !p.Authenticated {
		return Deny(ReasonAuthenticationRequired, "authentication required")
	}

	if !p.HasRole(requiredRole) {
		return Deny(ReasonRoleNotPermitted, "role not permitted")
	}

	if ownerID, owned := resource.OwnerPrincipalID(); owned && ownerID != p.ID {
		return Deny(ReasonNotOwner, "you do not own this resource")
	}

	return Allow()
}

// CanMutateField decides a single-field mutation on a product. The price
// field requires the can_change_product_price scope on top of ownership,
// even for the owner; ownership is checked before the field capability so a
// non-owner is told "not owner", not "missing permission". Every other field
// delegates to the plain write rule.
func CanMutateField(ctx context.Context, p authz.Principal, field string, resource Resource) Decision {
	return decided(ctx, "mutate-field:"+field, p, canMutateField(p, field, resource))
}

func canMutateField(p authz.Principal, field string, resource Resource) Decision {
	if decision := canWrite(p, objects.RoleVendor, resource); !decision.Allowed {
		return decision
	}

	if field != "price" {
		return Allow()
	}

	if !p.HasScope(scopes.ScopeChangeProductPrice) {
		return Deny(ReasonMissingFieldPermission, "missing 'can_change_product_price' permission")
	}

	return Allow()
}

// CanTransitionStore decides whether an update may move a product to
// another store. It may not: the store reference is immutable, for every
// principal including staff, so this is checked before any identity rule.
func CanTransitionStore(ctx context.Context, p authz.Principal, existing *objects.Product, proposedStoreID int) Decision {
	return decided(ctx, "transition-store", p, canTransitionStore(existing, proposedStoreID))
}

func canTransitionStore(existing *objects.Product, proposedStoreID int) Decision {
	if proposedStoreID != existing.StoreID {
		return Deny(ReasonStoreImmutable, "the store of an existing product cannot change")
	}

	return Allow()
}

// CanReview decides review creation. productOwnerID is the resolved owner of
// the reviewed product; alreadyReviewed is whether a review by this
// principal for this product exists. Only the role rule carries a staff
// bypass: self-review denies for every principal, staff included.
func CanReview(ctx context.Context, p authz.Principal, productOwnerID int, alreadyReviewed bool) Decision {
	return decided(ctx, "review", p, canReview(p, productOwnerID, alreadyReviewed))
}

func canReview(p authz.Principal, productOwnerID int, alreadyReviewed bool) Decision {
	if !p.Authenticated {
		return Deny(ReasonAuthenticationRequired, "authentication required")
	}

	if p.ID == productOwnerID {
		return Deny(ReasonSelfReview, "vendors cannot review their own product")
	}

	if !p.HasRole(objects.RoleBuyer) && !p.Staff {
		return Deny(ReasonRoleNotPermitted, "role not permitted")
	}

	if alreadyReviewed {
		return Deny(ReasonDuplicateReview, "you have already reviewed this product")
	}

	return Allow()
}

// decided emits the audit log for a decision and passes it through.
func decided(ctx context.Context, operation string, p authz.Principal, decision Decision) Decision {
	log.Debug(ctx, "policy: decision",
		log.String("principal", p.String()),
		log.String("operation", operation),
		log.String("decision", lo.Ternary(decision.Allowed, "allow", "deny")),
		log.String("reason", string(decision.Reason)),
	)

	return decision
}
