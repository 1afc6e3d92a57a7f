package authz

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/scopes"
)

func TestResolvePrincipal(t *testing.T) {
	t.Run("nil user is anonymous", func(t *testing.T) {
		p := ResolvePrincipal(nil)
		assert.False(t, p.Authenticated)
		assert.False(t, p.Staff)
		assert.Empty(t, p.Roles)
		assert.Empty(t, p.Scopes)
		assert.Equal(t, "anonymous", p.String())
	})

	t.Run("vendor with scope", func(t *testing.T) {
		p := ResolvePrincipal(&objects.User{
			ID:     7,
			Roles:  []objects.Role{objects.RoleVendor},
			Scopes: []string{string(scopes.ScopeChangeProductPrice)},
		})
		assert.True(t, p.Authenticated)
		assert.True(t, p.HasRole(objects.RoleVendor))
		assert.False(t, p.HasRole(objects.RoleBuyer))
		assert.True(t, p.HasScope(scopes.ScopeChangeProductPrice))
		assert.Equal(t, "user:7", p.String())
	})

	t.Run("staff implicitly holds every scope", func(t *testing.T) {
		p := ResolvePrincipal(&objects.User{ID: 1, IsStaff: true})
		assert.True(t, p.HasScope(scopes.ScopeChangeProductPrice))
		assert.Equal(t, "staff:1", p.String())
	})

	t.Run("resolved shape", func(t *testing.T) {
		got := ResolvePrincipal(&objects.User{
			ID:      7,
			IsStaff: false,
			Roles:   []objects.Role{objects.RoleVendor},
			Scopes:  []string{string(scopes.ScopeChangeProductPrice)},
		})
		want := Principal{
			ID:            7,
			Authenticated: true,
			Roles:         []objects.Role{objects.RoleVendor},
			Scopes:        []string{string(scopes.ScopeChangeProductPrice)},
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("principal mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("resolver copies role and scope sets", func(t *testing.T) {
		user := &objects.User{
			ID:     3,
			Roles:  []objects.Role{objects.RoleBuyer},
			Scopes: []string{"x"},
		}
		p := ResolvePrincipal(user)
		user.Roles[0] = objects.RoleVendor
		user.Scopes[0] = "y"
		assert.True(t, p.HasRole(objects.RoleBuyer))
		assert.Equal(t, []string{"x"}, p.Scopes)
	})
}

func TestWithPrincipal(t *testing.T) {
	ctx := context.Background()

	first := ResolvePrincipal(&objects.User{ID: 1, Roles: []objects.Role{objects.RoleBuyer}})

	ctx, err := WithPrincipal(ctx, first)
	require.NoError(t, err)

	t.Run("same principal is idempotent", func(t *testing.T) {
		_, err := WithPrincipal(ctx, first)
		assert.NoError(t, err)
	})

	t.Run("different principal conflicts", func(t *testing.T) {
		other := ResolvePrincipal(&objects.User{ID: 2})
		_, err := WithPrincipal(ctx, other)
		assert.Error(t, err)
	})

	t.Run("get returns stored principal", func(t *testing.T) {
		got, ok := GetPrincipal(ctx)
		require.True(t, ok)
		assert.Equal(t, first, got)
	})

	t.Run("absent principal resolves to anonymous", func(t *testing.T) {
		p := PrincipalFromContext(context.Background())
		assert.False(t, p.Authenticated)
	})
}
