package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/server/biz"
)

type OrderHandlersParams struct {
	fx.In

	OrderService *biz.OrderService
}

func NewOrderHandlers(params OrderHandlersParams) *OrderHandlers {
	return &OrderHandlers{OrderService: params.OrderService}
}

type OrderHandlers struct {
	OrderService *biz.OrderService
}

// Place checks out the acting user's cart.
func (h *OrderHandlers) Place(c *gin.Context) {
	order, err := h.OrderService.PlaceOrder(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandlers) List(c *gin.Context) {
	orders, err := h.OrderService.Orders(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
