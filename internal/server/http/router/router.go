package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/okonev/orderdesk/internal/notifier"
	"github.com/okonev/orderdesk/internal/server/http/handlers"
	"github.com/okonev/orderdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderDeskFacade, hub *notifier.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/ws"})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	alertHandler := handlers.NewAlertHandler(facade)
	sheetHandler := handlers.NewSheetHandler(facade)
	wsHandler := handlers.NewWSHandler(hub, logger)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/ws", wsHandler.Serve)

	orders := authed.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/stats", orderHandler.Stats)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.ChangeStatus)
	orders.POST("/:id/comments", orderHandler.AddComment)
	orders.DELETE("/:id", orderHandler.Delete)

	authed.GET("/alerts", alertHandler.List)

	sheets := authed.Group("/sheets")
	sheets.GET("", sheetHandler.List)
	sheets.POST("", middleware.AdminRequired(), sheetHandler.Create)
	sheets.DELETE("/:id", middleware.AdminRequired(), sheetHandler.Delete)

	return engine
}
