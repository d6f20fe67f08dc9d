package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/server/handlers"
	"github.com/mamadbah2/mfgconsole/internal/view"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.ConsoleHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	for _, layout := range view.Layouts {
		r.GET(layout.Path, handler.Page(layout.Name))
	}

	auth := r.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/signup", handler.Signup)
	auth.POST("/logout", handler.Logout)

	r.POST("/theme", handler.ToggleTheme)

	r.POST("/products", handler.CreateProduct)
	r.POST("/products/:id/delete", handler.DeleteProduct)
	r.POST("/bom", handler.CreateBOM)
	r.POST("/bom/lookup", handler.LookupBOM)
	r.POST("/orders", handler.CreateOrder)
	r.POST("/orders/:id/status", handler.UpdateOrderStatus)
	r.POST("/orders/:id/delete", handler.DeleteOrder)
	r.POST("/work-orders/status", handler.UpdateWorkOrderStatus)

	r.GET("/reports/export", handler.Export)
	r.GET("/reports/snapshots", handler.Snapshots)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
