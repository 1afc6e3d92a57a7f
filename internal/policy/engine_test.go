package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/scopes"
)

func vendor(id int, extraScopes ...string) authz.Principal {
	return authz.ResolvePrincipal(&objects.User{
		ID:     id,
		Roles:  []objects.Role{objects.RoleVendor},
		Scopes: extraScopes,
	})
}

func buyer(id int) authz.Principal {
	return authz.ResolvePrincipal(&objects.User{
		ID:    id,
		Roles: []objects.Role{objects.RoleBuyer},
	})
}

func staff(id int) authz.Principal {
	return authz.ResolvePrincipal(&objects.User{ID: id, IsStaff: true})
}

func TestCanReadSafely(t *testing.T) {
	assert.True(t, CanReadSafely(ActionRead))
	assert.False(t, CanReadSafely(ActionCreate))
	assert.False(t, CanReadSafely(ActionUpdate))
	assert.False(t, CanReadSafely(ActionDelete))
}

func TestCanWrite(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		principal  authz.Principal
		role       objects.Role
		resource   Resource
		allowed    bool
		wantReason Reason
	}{
		{
			name:       "anonymous denied",
			principal:  authz.Anonymous(),
			role:       objects.RoleVendor,
			resource:   Unowned(),
			wantReason: ReasonAuthenticationRequired,
		},
		{
			name:       "buyer cannot write vendor resources",
			principal:  buyer(2),
			role:       objects.RoleVendor,
			resource:   Unowned(),
			wantReason: ReasonRoleNotPermitted,
		},
		{
			name:       "vendor cannot write another vendor's resource",
			principal:  vendor(2),
			role:       objects.RoleVendor,
			resource:   OwnedBy(9),
			wantReason: ReasonNotOwner,
		},
		{
			name:      "owner allowed",
			principal: vendor(9),
			role:      objects.RoleVendor,
			resource:  OwnedBy(9),
			allowed:   true,
		},
		{
			name:      "vendor create allowed without ownership gate",
			principal: vendor(2),
			role:      objects.RoleVendor,
			resource:  Unowned(),
			allowed:   true,
		},
		{
			name:      "staff bypasses role and ownership",
			principal: staff(1),
			role:      objects.RoleVendor,
			resource:  OwnedBy(9),
			allowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CanWrite(ctx, tt.principal, tt.role, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)

			if !tt.allowed {
				assert.Equal(t, tt.wantReason, decision.Reason)
				assert.NotEmpty(t, decision.Message)
			}
		})
	}
}

func TestCanMutateField(t *testing.T) {
	ctx := context.Background()

	t.Run("owner without price scope denied on price", func(t *testing.T) {
		decision := CanMutateField(ctx, vendor(9), "price", OwnedBy(9))
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonMissingFieldPermission, decision.Reason)
	})

	t.Run("owner with price scope allowed", func(t *testing.T) {
		p := vendor(9, string(scopes.ScopeChangeProductPrice))
		decision := CanMutateField(ctx, p, "price", OwnedBy(9))
		assert.True(t, decision.Allowed)
	})

	t.Run("staff allowed without explicit scope", func(t *testing.T) {
		decision := CanMutateField(ctx, staff(1), "price", OwnedBy(9))
		assert.True(t, decision.Allowed)
	})

	t.Run("ownership checked before field permission", func(t *testing.T) {
		// A non-owner with the scope is told "not owner", not "missing
		// permission".
		p := vendor(2, string(scopes.ScopeChangeProductPrice))
		decision := CanMutateField(ctx, p, "price", OwnedBy(9))
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwner, decision.Reason)
	})

	t.Run("other fields only need ownership", func(t *testing.T) {
		decision := CanMutateField(ctx, vendor(9), "stock", OwnedBy(9))
		assert.True(t, decision.Allowed)
	})
}

func TestCanTransitionStore(t *testing.T) {
	ctx := context.Background()
	product := &objects.Product{ID: 1, StoreID: 5}

	t.Run("same store allowed", func(t *testing.T) {
		decision := CanTransitionStore(ctx, vendor(9), product, 5)
		assert.True(t, decision.Allowed)
	})

	t.Run("different store denied for owner", func(t *testing.T) {
		decision := CanTransitionStore(ctx, vendor(9), product, 6)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonStoreImmutable, decision.Reason)
	})

	t.Run("different store denied even for staff", func(t *testing.T) {
		decision := CanTransitionStore(ctx, staff(1), product, 6)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonStoreImmutable, decision.Reason)
	})
}

func TestCanReview(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous denied", func(t *testing.T) {
		decision := CanReview(ctx, authz.Anonymous(), 9, false)
		assert.Equal(t, ReasonAuthenticationRequired, decision.Reason)
	})

	t.Run("owner cannot review own product", func(t *testing.T) {
		decision := CanReview(ctx, vendor(9), 9, false)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonSelfReview, decision.Reason)
	})

	t.Run("self review denied even for staff", func(t *testing.T) {
		decision := CanReview(ctx, staff(9), 9, false)
		assert.Equal(t, ReasonSelfReview, decision.Reason)
	})

	t.Run("vendor without buyer role denied", func(t *testing.T) {
		decision := CanReview(ctx, vendor(2), 9, false)
		assert.Equal(t, ReasonRoleNotPermitted, decision.Reason)
	})

	t.Run("staff may review without buyer role", func(t *testing.T) {
		decision := CanReview(ctx, staff(1), 9, false)
		assert.True(t, decision.Allowed)
	})

	t.Run("duplicate review denied", func(t *testing.T) {
		decision := CanReview(ctx, buyer(2), 9, true)
		assert.Equal(t, ReasonDuplicateReview, decision.Reason)
	})

	t.Run("buyer allowed", func(t *testing.T) {
		decision := CanReview(ctx, buyer(2), 9, false)
		assert.True(t, decision.Allowed)
	})
}
