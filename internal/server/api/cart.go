package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/server/biz"
)

type CartHandlersParams struct {
	fx.In

	CartService *cart.Service
}

func NewCartHandlers(params CartHandlersParams) *CartHandlers {
	return &CartHandlers{CartService: params.CartService}
}

type CartHandlers struct {
	CartService *cart.Service
}

type CartItem struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
}

func cartResponse(userCart objects.Cart) CartResponse {
	items := make([]CartItem, 0, len(userCart))
	for _, id := range userCart.ProductIDs() {
		items = append(items, CartItem{ProductID: id, Qty: userCart[id]})
	}

	return CartResponse{Items: items}
}

// actingUserID resolves the authenticated principal behind the request.
func actingUserID(c *gin.Context) (int, bool) {
	principal := authz.PrincipalFromContext(c.Request.Context())
	if !principal.Authenticated {
		JSONError(c, http.StatusUnauthorized, biz.ErrAuthenticationRequired)
		return 0, false
	}

	return principal.ID, true
}

func (h *CartHandlers) Get(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	userCart, err := h.CartService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHandlers) Add(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	var req CartItem
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID <= 0 {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	userCart, err := h.CartService.Add(c.Request.Context(), userID, req.ProductID, req.Qty)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHandlers) SetQty(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Qty int `json:"qty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	userCart, err := h.CartService.SetQty(c.Request.Context(), userID, productID, req.Qty)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHandlers) Remove(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userCart, err := h.CartService.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHandlers) Clear(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(c.Request.Context(), userID); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
