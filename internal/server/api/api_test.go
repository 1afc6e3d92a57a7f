package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PerryRichardson/storefront/internal/objects"
)

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register and sign in", func(t *testing.T) {
		token := router.signUp(t, "nora", "vendor")
		require.NotEmpty(t, token)

		w := router.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
			"username": "nora",
			"password": "correct horse",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeJSON[SignInResponse](t, w)
		require.Equal(t, "nora", resp.User.Username)
		require.Empty(t, resp.User.Password)
		require.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/auth/signin", "", map[string]any{
			"username": "nora",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("registration validation lists every field", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"username": " ",
			"email":    "not-an-address",
			"password": "short",
			"role":     "admin",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeJSON[objects.ErrorResponse](t, w)
		require.Len(t, resp.Errors, 4)

		fields := make([]string, 0, len(resp.Errors))
		for _, fieldError := range resp.Errors {
			require.Equal(t, "invalid_value", fieldError.Type)
			fields = append(fields, fieldError.Field)
		}

		require.ElementsMatch(t, []string{"username", "email", "password", "role"}, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/auth/register", "", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid request format")
	})
}

func TestStoreEndpoints(t *testing.T) {
	router := newTestRouter(t)

	vendorToken := router.signUp(t, "vicky", "vendor")
	buyerToken := router.signUp(t, "bert", "buyer")

	t.Run("create requires a token", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/stores", "", map[string]any{"name": "Pottery"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("buyers may not open stores", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/stores", buyerToken, map[string]any{"name": "Pottery"})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("vendor creates a store", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/stores", vendorToken, map[string]any{
			"name":        "Pottery",
			"description": "Hand thrown",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		created := decodeJSON[objects.Store](t, w)
		require.Equal(t, "Pottery", created.Name)
		require.NotZero(t, created.VendorID)
	})

	t.Run("anyone can read the store", func(t *testing.T) {
		w := router.do(t, http.MethodGet, "/api/stores", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var listing []objects.Store

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
		require.Len(t, listing, 1)
	})

	t.Run("only the owner updates", func(t *testing.T) {
		w := router.do(t, http.MethodPut, "/api/stores/1", buyerToken, map[string]any{"name": "Mine Now"})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing store is 404", func(t *testing.T) {
		w := router.do(t, http.MethodGet, "/api/stores/999", "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("blank name is a field error", func(t *testing.T) {
		w := router.do(t, http.MethodPut, "/api/stores/1", vendorToken, map[string]any{"name": "   "})
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeJSON[objects.ErrorResponse](t, w)
		require.Len(t, resp.Errors, 1)
		require.Equal(t, "name", resp.Errors[0].Field)
	})
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter(t)

	vendorToken := router.signUp(t, "vicky", "vendor")

	w := router.do(t, http.MethodPost, "/api/stores", vendorToken, map[string]any{"name": "Pottery"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[objects.Store](t, w)

	t.Run("create and fetch", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/products", vendorToken, map[string]any{
			"store_id": created.ID,
			"name":     "Vase",
			"price":    "19.90",
			"stock":    3,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		product := decodeJSON[objects.Product](t, w)
		require.Equal(t, "19.9", product.Price.String())

		w = router.do(t, http.MethodGet, "/api/products/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("store transition rejected", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/stores", vendorToken, map[string]any{"name": "Second"})
		require.Equal(t, http.StatusCreated, w.Code)
		second := decodeJSON[objects.Store](t, w)

		w = router.do(t, http.MethodPut, "/api/products/1", vendorToken, map[string]any{
			"store_id": second.ID,
			"name":     "Vase",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("search", func(t *testing.T) {
		w := router.do(t, http.MethodGet, "/api/products?q=vase", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var listing []objects.Product

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
		require.Len(t, listing, 1)
	})
}

func TestCartAndCheckout(t *testing.T) {
	router := newTestRouter(t)

	vendorToken := router.signUp(t, "vicky", "vendor")
	buyerToken := router.signUp(t, "bert", "buyer")

	w := router.do(t, http.MethodPost, "/api/stores", vendorToken, map[string]any{"name": "Pottery"})
	require.Equal(t, http.StatusCreated, w.Code)
	store := decodeJSON[objects.Store](t, w)

	w = router.do(t, http.MethodPost, "/api/products", vendorToken, map[string]any{
		"store_id": store.ID,
		"name":     "Vase",
		"price":    "19.90",
		"stock":    3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decodeJSON[objects.Product](t, w)

	t.Run("cart requires auth", func(t *testing.T) {
		w := router.do(t, http.MethodGet, "/api/cart", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty cart checkout rejected", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/orders", buyerToken, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("add to cart and check out", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/cart/items", buyerToken, map[string]any{
			"product_id": product.ID,
			"qty":        2,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeJSON[CartResponse](t, w)
		require.Len(t, resp.Items, 1)
		require.Equal(t, 2, resp.Items[0].Qty)

		w = router.do(t, http.MethodPost, "/api/orders", buyerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		order := decodeJSON[objects.Order](t, w)
		require.Equal(t, "39.8", order.Total.String())
		require.Len(t, order.Lines, 1)

		// Checkout empties the cart.
		w = router.do(t, http.MethodGet, "/api/cart", buyerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, decodeJSON[CartResponse](t, w).Items)
	})

	t.Run("excess quantity conflicts", func(t *testing.T) {
		w := router.do(t, http.MethodPost, "/api/cart/items", buyerToken, map[string]any{
			"product_id": product.ID,
			"qty":        99,
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = router.do(t, http.MethodPost, "/api/orders", buyerToken, nil)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("order history is owner only", func(t *testing.T) {
		w := router.do(t, http.MethodGet, "/api/orders", buyerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var orders []objects.Order

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 1)

		w = router.do(t, http.MethodGet, "/api/orders/1", vendorToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := router.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[HealthResponse](t, w)
	require.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Build.Version)
	require.Equal(t, "sqlite3", resp.Storage)
}
