package router

import (
	"stockwatch/internal/config"
	"stockwatch/internal/handler"

	"github.com/gin-gonic/gin"
)

// New builds the gin engine with the thin HTTP surface around the core:
// websocket push, the stock decrement mutation, forecast reads, sales
// recording, and the overview metrics.
func New(
	cfg *config.Config,
	products *handler.ProductHandler,
	orders *handler.OrderHandler,
	metrics *handler.MetricsHandler,
	wsHandler *handler.WSHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", handler.Health)
	r.GET("/ws", wsHandler.Handle)
	r.GET("/metrics", metrics.Overview)

	p := r.Group("/products")
	{
		p.POST("", products.Create)
		p.GET("", products.List)
		p.POST("/:id/decrement", products.Decrement)
		p.GET("/:id/forecast", products.Forecast)
	}

	r.POST("/orders", orders.Create)

	return r
}
