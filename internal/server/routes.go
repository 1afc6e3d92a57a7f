package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/server/api"
	"github.com/PerryRichardson/storefront/internal/server/biz"
	"github.com/PerryRichardson/storefront/internal/server/middleware"
)

type Handlers struct {
	fx.In

	System   *api.SystemHandlers
	Auth     *api.AuthHandlers
	Stores   *api.StoreHandlers
	Products *api.ProductHandlers
	Cart     *api.CartHandlers
	Orders   *api.OrderHandlers
}

type Services struct {
	fx.In

	AuthService *biz.AuthService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)

		publicGroup.POST("/api/auth/register", handlers.Auth.Register)
		publicGroup.POST("/api/auth/signin", handlers.Auth.SignIn)

		// The catalog is readable by anyone.
		publicGroup.GET("/api/stores", handlers.Stores.List)
		publicGroup.GET("/api/stores/:id", handlers.Stores.Get)
		publicGroup.GET("/api/stores/:id/products", handlers.Stores.Products)
		publicGroup.GET("/api/vendors/:id/stores", handlers.Stores.ByVendor)
		publicGroup.GET("/api/products", handlers.Products.List)
		publicGroup.GET("/api/products/:id", handlers.Products.Get)
		publicGroup.GET("/api/products/:id/reviews", handlers.Products.Reviews)
	}

	authGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithJWTAuth(services.AuthService),
	)
	{
		authGroup.POST("/stores", handlers.Stores.Create)
		authGroup.PUT("/stores/:id", handlers.Stores.Update)
		authGroup.DELETE("/stores/:id", handlers.Stores.Delete)

		authGroup.POST("/products", handlers.Products.Create)
		authGroup.PUT("/products/:id", handlers.Products.Update)
		authGroup.DELETE("/products/:id", handlers.Products.Delete)

		authGroup.POST("/products/:id/reviews", handlers.Products.CreateReview)

		authGroup.GET("/cart", handlers.Cart.Get)
		authGroup.POST("/cart/items", handlers.Cart.Add)
		authGroup.PUT("/cart/items/:id", handlers.Cart.SetQty)
		authGroup.DELETE("/cart/items/:id", handlers.Cart.Remove)
		authGroup.DELETE("/cart", handlers.Cart.Clear)

		authGroup.POST("/orders", handlers.Orders.Place)
		authGroup.GET("/orders", handlers.Orders.List)
		authGroup.GET("/orders/:id", handlers.Orders.Get)
	}
}
