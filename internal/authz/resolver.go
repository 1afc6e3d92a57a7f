package authz

import (
	"context"

	"github.com/PerryRichardson/storefront/internal/objects"
)

// ResolvePrincipal flattens an authenticated user onto a Principal. Role
// membership and granted scopes are precomputed here so policy decisions
// stay pure and storage-free. A nil user yields the anonymous principal;
// absence of data always degrades to "no rights", never to an error.
func ResolvePrincipal(user *objects.User) Principal {
	if user == nil {
		return Anonymous()
	}

	roles := make([]objects.Role, len(user.Roles))
	copy(roles, user.Roles)

	granted := make([]string, len(user.Scopes))
	copy(granted, user.Scopes)

	return Principal{
		ID:            user.ID,
		Authenticated: true,
		Staff:         user.IsStaff,
		Roles:         roles,
		Scopes:        granted,
	}
}

// NewUserContext resolves the user and stores the principal, for call sites
// (tests, background jobs) that bypass the HTTP middleware.
func NewUserContext(ctx context.Context, user *objects.User) context.Context {
	return context.WithValue(ctx, principalKey{}, ResolvePrincipal(user))
}
