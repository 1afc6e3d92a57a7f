package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zhenzou/executors"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
	"github.com/PerryRichardson/storefront/internal/storage"
	"github.com/PerryRichardson/storefront/internal/storage/storagetest"
)

type testServices struct {
	Store     *storage.Client
	Users     *UserService
	Auth      *AuthService
	Ownership *OwnershipService
	Stores    *StoreService
	Products  *ProductService
	Reviews   *ReviewService
	Orders    *OrderService
	Cart      *cart.Service
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	store := storagetest.Open(t)

	executor := executors.NewPoolScheduleExecutor(executors.WithMaxConcurrent(2))
	t.Cleanup(func() {
		_ = executor.Shutdown(context.Background())
	})

	notifier := notify.New(notify.Config{}, executor)

	users, err := NewUserService(UserServiceParams{
		CacheConfig: xcache.Config{Mode: xcache.ModeMemory},
		Store:       store,
	})
	require.NoError(t, err)

	auth, err := NewAuthService(AuthServiceParams{
		Config:      AuthConfig{SecretKey: "0badc0de", TokenTTL: time.Hour},
		Store:       store,
		UserService: users,
	})
	require.NoError(t, err)

	ownership := NewOwnershipService(OwnershipServiceParams{Store: store})

	cartService, err := cart.New(cart.Config{})
	require.NoError(t, err)

	products, err := NewProductService(ProductServiceParams{
		CacheConfig: xcache.Config{Mode: xcache.ModeMemory},
		Store:       store,
		Ownership:   ownership,
		Notify:      notifier,
	})
	require.NoError(t, err)

	return &testServices{
		Store:     store,
		Users:     users,
		Auth:      auth,
		Ownership: ownership,
		Stores:    NewStoreService(StoreServiceParams{Store: store, Ownership: ownership}),
		Products:  products,
		Reviews:   NewReviewService(ReviewServiceParams{Store: store, Ownership: ownership, Notify: notifier}),
		Orders:    NewOrderService(OrderServiceParams{Store: store, Cart: cartService, Notify: notifier}),
		Cart:      cartService,
	}
}

// register creates a user through the signup flow and returns it.
func (s *testServices) register(t *testing.T, username, role string) *objects.User {
	t.Helper()

	user, err := s.Users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse",
		Role:     role,
	})
	require.NoError(t, err)

	return user
}

// asUser returns a context acting as the given stored user.
func (s *testServices) asUser(t *testing.T, userID int) context.Context {
	t.Helper()

	user, err := s.Store.UserByID(context.Background(), userID)
	require.NoError(t, err)

	ctx, err := authz.WithPrincipal(context.Background(), authz.ResolvePrincipal(user))
	require.NoError(t, err)

	return ctx
}
