// Package policy is the authorization decision engine. Every rule is a pure
// function over an already-resolved principal and an already-fetched
// resource: no storage access, no side effects, deterministic reasons.
// All call sites (HTTP handlers, services, validators) delegate here instead
// of reimplementing guards.
package policy

// Reason identifies why a decision denied. Reasons are stable strings so the
// HTTP boundary and audit logs can switch on them.
type Reason string

const (
	ReasonAuthenticationRequired Reason = "authentication_required"
	ReasonRoleNotPermitted       Reason = "role_not_permitted"
	ReasonNotOwner               Reason = "not_owner"
	ReasonMissingFieldPermission Reason = "missing_field_permission"
	ReasonStoreImmutable         Reason = "store_immutable"
	ReasonSelfReview             Reason = "self_review"
	ReasonDuplicateReview        Reason = "duplicate_review"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Allow returns the allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with a stable reason and a human message.
func Deny(reason Reason, message string) Decision {
	return Decision{Allowed: false, Reason: reason, Message: message}
}

// Resource is the engine's view of a target: whether it is ownership-gated
// and, if so, by which principal.
type Resource interface {
	// OwnerPrincipalID returns the owning principal id and true, or false
	// when the resource carries no ownership-based write policy.
	OwnerPrincipalID() (int, bool)
}

type ownedResource int

func (r ownedResource) OwnerPrincipalID() (int, bool) { return int(r), true }

type unownedResource struct{}

func (unownedResource) OwnerPrincipalID() (int, bool) { return 0, false }

// OwnedBy adapts a resolved owner id to a Resource.
func OwnedBy(principalID int) Resource { return ownedResource(principalID) }

// Unowned is a Resource with no ownership gate (e.g. a create, where there
// is no existing row to own yet).
func Unowned() Resource { return unownedResource{} }
