package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/zhenzou/executors"

	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
	"github.com/PerryRichardson/storefront/internal/server/biz"
	"github.com/PerryRichardson/storefront/internal/server/middleware"
	"github.com/PerryRichardson/storefront/internal/storage"
	"github.com/PerryRichardson/storefront/internal/storage/storagetest"
)

// testRouter runs the real handlers over an in-memory database with the
// same route layout and JWT middleware the server mounts.
type testRouter struct {
	*gin.Engine

	Store *storage.Client
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := storagetest.Open(t)

	executor := executors.NewPoolScheduleExecutor(executors.WithMaxConcurrent(2))
	t.Cleanup(func() {
		_ = executor.Shutdown(context.Background())
	})

	notifier := notify.New(notify.Config{}, executor)

	users, err := biz.NewUserService(biz.UserServiceParams{
		CacheConfig: xcache.Config{Mode: xcache.ModeMemory},
		Store:       store,
	})
	require.NoError(t, err)

	auth, err := biz.NewAuthService(biz.AuthServiceParams{
		Config:      biz.AuthConfig{SecretKey: "0badc0de", TokenTTL: time.Hour},
		Store:       store,
		UserService: users,
	})
	require.NoError(t, err)

	ownership := biz.NewOwnershipService(biz.OwnershipServiceParams{Store: store})

	cartService, err := cart.New(cart.Config{})
	require.NoError(t, err)

	stores := biz.NewStoreService(biz.StoreServiceParams{Store: store, Ownership: ownership})
	products, err := biz.NewProductService(biz.ProductServiceParams{
		CacheConfig: xcache.Config{Mode: xcache.ModeMemory},
		Store:       store,
		Ownership:   ownership,
		Notify:      notifier,
	})
	require.NoError(t, err)
	reviews := biz.NewReviewService(biz.ReviewServiceParams{Store: store, Ownership: ownership, Notify: notifier})
	orders := biz.NewOrderService(biz.OrderServiceParams{Store: store, Cart: cartService, Notify: notifier})

	authHandlers := NewAuthHandlers(AuthHandlersParams{AuthService: auth, UserService: users})
	storeHandlers := NewStoreHandlers(StoreHandlersParams{StoreService: stores, ProductService: products})
	productHandlers := NewProductHandlers(ProductHandlersParams{ProductService: products, ReviewService: reviews})
	cartHandlers := NewCartHandlers(CartHandlersParams{CartService: cartService})
	orderHandlers := NewOrderHandlers(OrderHandlersParams{OrderService: orders})
	systemHandlers := NewSystemHandlers(SystemHandlersParams{Store: store})

	router := gin.New()

	router.GET("/health", systemHandlers.Health)
	router.POST("/api/auth/register", authHandlers.Register)
	router.POST("/api/auth/signin", authHandlers.SignIn)
	router.GET("/api/stores", storeHandlers.List)
	router.GET("/api/stores/:id", storeHandlers.Get)
	router.GET("/api/stores/:id/products", storeHandlers.Products)
	router.GET("/api/products", productHandlers.List)
	router.GET("/api/products/:id", productHandlers.Get)
	router.GET("/api/products/:id/reviews", productHandlers.Reviews)

	authGroup := router.Group("/api", middleware.WithJWTAuth(auth))
	authGroup.POST("/stores", storeHandlers.Create)
	authGroup.PUT("/stores/:id", storeHandlers.Update)
	authGroup.DELETE("/stores/:id", storeHandlers.Delete)
	authGroup.POST("/products", productHandlers.Create)
	authGroup.PUT("/products/:id", productHandlers.Update)
	authGroup.DELETE("/products/:id", productHandlers.Delete)
	authGroup.POST("/products/:id/reviews", productHandlers.CreateReview)
	authGroup.GET("/cart", cartHandlers.Get)
	authGroup.POST("/cart/items", cartHandlers.Add)
	authGroup.PUT("/cart/items/:id", cartHandlers.SetQty)
	authGroup.DELETE("/cart/items/:id", cartHandlers.Remove)
	authGroup.DELETE("/cart", cartHandlers.Clear)
	authGroup.POST("/orders", orderHandlers.Place)
	authGroup.GET("/orders", orderHandlers.List)
	authGroup.GET("/orders/:id", orderHandlers.Get)

	return &testRouter{Engine: router, Store: store}
}

// do issues a JSON request, with a bearer token when one is given.
func (r *testRouter) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// signUp registers a user and returns their token.
func (r *testRouter) signUp(t *testing.T, username, role string) string {
	t.Helper()

	w := r.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct horse",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp SignInResponse

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}
