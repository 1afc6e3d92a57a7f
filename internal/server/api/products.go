package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/server/biz"
)

type ProductHandlersParams struct {
	fx.In

	ProductService *biz.ProductService
	ReviewService  *biz.ReviewService
}

func NewProductHandlers(params ProductHandlersParams) *ProductHandlers {
	return &ProductHandlers{
		ProductService: params.ProductService,
		ReviewService:  params.ReviewService,
	}
}

type ProductHandlers struct {
	ProductService *biz.ProductService
	ReviewService  *biz.ReviewService
}

func (h *ProductHandlers) List(c *gin.Context) {
	products, err := h.ProductService.ListProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Create(c *gin.Context) {
	var req biz.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	product, err := h.ProductService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req biz.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	product, err := h.ProductService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.DeleteProduct(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandlers) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.ReviewService.ReviewsByProduct(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ProductHandlers) CreateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req biz.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	review, err := h.ReviewService.CreateReview(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
