package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/build"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type SystemHandlersParams struct {
	fx.In

	Store *storage.Client
}

func NewSystemHandlers(params SystemHandlersParams) *SystemHandlers {
	return &SystemHandlers{Store: params.Store}
}

type SystemHandlers struct {
	Store *storage.Client
}

type HealthResponse struct {
	Status  string     `json:"status"`
	Build   build.Info `json:"build"`
	Storage string     `json:"storage"`
}

func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Build:   build.GetBuildInfo(),
		Storage: h.Store.Dialect(),
	})
}
