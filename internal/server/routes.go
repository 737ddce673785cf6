package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/xpanvictor/callpad/docs"
	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/internal/config"
	"github.com/xpanvictor/callpad/internal/handlers"
	wsHandlers "github.com/xpanvictor/callpad/internal/handlers/websocket"
	"github.com/xpanvictor/callpad/internal/tools/orders"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

type Dependencies struct {
	View    *call.View
	Orders  *orders.Store
	Logger  *Logger.Logger
	Configs *config.Settings

	// set by InitializeRoutes so shutdown can close open streams
	StatusStream *wsHandlers.WebSocketHandler
}

func NewServerDependencies(
	view *call.View,
	orderStore *orders.Store,
	logger *Logger.Logger,
	config *config.Settings,
) *Dependencies {
	return &Dependencies{
		View:    view,
		Orders:  orderStore,
		Logger:  logger,
		Configs: config,
	}
}

func InitializeRoutes(r *gin.Engine, dep *Dependencies) {
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.CORSMiddleware())
	r.SetHTMLTemplate(handlers.Templates())

	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	page := handlers.NewPageHandler(dep.View)
	r.GET("/", page.Index)

	callHandler := handlers.NewCallHandler(dep.View, dep.Logger.Named("http"))
	api := r.Group("/api/call")
	{
		api.POST("/start", callHandler.Start)
		api.POST("/stop", callHandler.Stop)
		api.GET("/status", callHandler.Status)
	}

	// tool webhook the assistant calls during a conversation
	orderHandler := handlers.NewOrderHandler(dep.Orders, dep.Logger.Named("tools"))
	r.POST("/orders", orderHandler.Lookup)

	dep.StatusStream = wsHandlers.NewWebSocketHandler(dep.Logger.Named("ws"), dep.View)
	dep.StatusStream.RegisterRoutes(r)
}
