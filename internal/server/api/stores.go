package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/server/biz"
)

type StoreHandlersParams struct {
	fx.In

	StoreService   *biz.StoreService
	ProductService *biz.ProductService
}

func NewStoreHandlers(params StoreHandlersParams) *StoreHandlers {
	return &StoreHandlers{
		StoreService:   params.StoreService,
		ProductService: params.ProductService,
	}
}

type StoreHandlers struct {
	StoreService   *biz.StoreService
	ProductService *biz.ProductService
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		JSONError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}

	return id, true
}

func (h *StoreHandlers) List(c *gin.Context) {
	stores, err := h.StoreService.ListStores(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	store, err := h.StoreService.GetStore(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *StoreHandlers) Products(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	products, err := h.ProductService.ProductsByStore(c.Request.Context(), id, c.Query("q"))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *StoreHandlers) ByVendor(c *gin.Context) {
	vendorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	stores, err := h.StoreService.StoresByVendor(c.Request.Context(), vendorID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandlers) Create(c *gin.Context) {
	var req biz.StoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	store, err := h.StoreService.CreateStore(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, store)
}

func (h *StoreHandlers) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req biz.StoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	store, err := h.StoreService.UpdateStore(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *StoreHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.StoreService.DeleteStore(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
