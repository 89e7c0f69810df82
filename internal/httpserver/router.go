package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"projectboard/internal/handler"
	"projectboard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(projectHandler *handler.ProjectHandler, taskHandler *handler.TaskHandler, logger *zap.Logger, db *pgxpool.Pool) *gin.Engine {
	r := gin.New()

	// 添加请求日志中间件
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			latency,
		)
	})

	// Catch-all so a panicking handler never takes the server down.
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Unhandled panic in request handler",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "Internal server error",
			"error":   fmt.Sprint(recovered),
		})
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Project and Task Management API"})
	})

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/projects", projectHandler.List)
		apiGroup.GET("/projects/:id", projectHandler.GetByID)
		apiGroup.POST("/projects", projectHandler.Create)
		apiGroup.PUT("/projects/:id", projectHandler.Update)
		apiGroup.DELETE("/projects/:id", projectHandler.Delete)

		apiGroup.GET("/tasks", taskHandler.List)
		apiGroup.GET("/tasks/:id", taskHandler.GetByID)
		apiGroup.POST("/tasks", taskHandler.Create)
		apiGroup.PUT("/tasks/:id", taskHandler.Update)
		apiGroup.DELETE("/tasks/:id", taskHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		logger.Info("404 - Route not found", zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return r
}
