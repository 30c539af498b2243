package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/orderengine/internal/pkg/auth"
	"github.com/polkiloo/orderengine/internal/server/http/handlers"
	"github.com/polkiloo/orderengine/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.EngineFacade, tokens middleware.TokenParser, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	inventoryHandler := handlers.NewInventoryHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	staff := middleware.AuthRequired(tokens, pkgAuth.RoleStaff)
	admin := middleware.AuthRequired(tokens, pkgAuth.RoleAdmin)

	orders := api.Group("/orders")
	orders.POST("", middleware.AuthOptional(tokens), orderHandler.Create)
	orders.GET("/number/:number", orderHandler.GetByNumber)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/history", orderHandler.History)
	orders.PATCH("/:id/status", staff, orderHandler.UpdateStatus)
	orders.POST("/:id/status/override", admin, orderHandler.OverrideStatus)

	inventory := api.Group("/inventory")
	inventory.POST("/:variantId/adjustments", staff, inventoryHandler.Adjust)
	inventory.GET("/:variantId/log", inventoryHandler.Log)

	return engine
}
