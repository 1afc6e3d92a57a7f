package authz

import (
	"context"
	"fmt"
	"slices"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/scopes"
)

// Principal represents the acting identity of a request. It is an immutable
// per-request value; the zero value is the anonymous principal with no
// rights.
type Principal struct {
	ID            int
	Authenticated bool
	// Staff bypasses ownership and role checks entirely.
	Staff  bool
	Roles  []objects.Role
	Scopes []string
}

// Anonymous returns the no-rights principal.
func Anonymous() Principal {
	return Principal{}
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role objects.Role) bool {
	return slices.Contains(p.Roles, role)
}

// HasScope reports whether the principal holds the given capability scope.
// Staff implicitly holds every scope.
func (p Principal) HasScope(scope scopes.ScopeSlug) bool {
	if p.Staff {
		return true
	}

	return slices.Contains(p.Scopes, string(scope))
}

// String returns a representation for audit logs.
func (p Principal) String() string {
	if !p.Authenticated {
		return "anonymous"
	}

	if p.Staff {
		return fmt.Sprintf("staff:%d", p.ID)
	}

	return fmt.Sprintf("user:%d", p.ID)
}

func (p Principal) equal(other Principal) bool {
	return p.ID == other.ID &&
		p.Authenticated == other.Authenticated &&
		p.Staff == other.Staff &&
		slices.Equal(p.Roles, other.Roles) &&
		slices.Equal(p.Scopes, other.Scopes)
}

// principalKey is an unexported key type to prevent external forgery.
type principalKey struct{}

// WithPrincipal sets the Principal, returning an error if a different one is
// already present. Each context can only carry one principal.
func WithPrincipal(ctx context.Context, p Principal) (context.Context, error) {
	if existing, ok := GetPrincipal(ctx); ok {
		if !existing.equal(p) {
			return ctx, fmt.Errorf("authz: principal conflict: existing=%s, new=%s", existing.String(), p.String())
		}

		return ctx, nil // Same principal, idempotent
	}

	return context.WithValue(ctx, principalKey{}, p), nil
}

// GetPrincipal reads the Principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// MustGetPrincipal reads the Principal, panicking if absent (used in chains
// where the auth middleware has already run).
func MustGetPrincipal(ctx context.Context) Principal {
	p, ok := GetPrincipal(ctx)
	if !ok {
		panic("authz: no principal in context")
	}

	return p
}

// PrincipalFromContext resolves the effective principal for the request:
// the one placed by WithPrincipal, else one resolved from the authenticated
// user, else anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := GetPrincipal(ctx); ok {
		return p
	}

	return Anonymous()
}
