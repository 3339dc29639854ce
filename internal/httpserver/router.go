package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"goalpath/internal/handler"
	"goalpath/pkg/metrics"
	"goalpath/pkg/trace"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	goalHandler *handler.GoalHandler,
	actionHandler *handler.ActionHandler,
	milestoneHandler *handler.MilestoneHandler,
	toolsHandler *handler.ToolsHandler,
	analyzeHandler *handler.AnalyzeHandler,
	jwtSecret string,
	db *pgxpool.Pool,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogMiddleware(logger))

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

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	api := r.Group("/api")
	api.Use(AuthMiddleware(jwtSecret))
	{
		api.GET("/goals", goalHandler.List)
		api.POST("/goals", goalHandler.Create)
		api.PATCH("/goals/:id", goalHandler.Update)
		api.DELETE("/goals/:id", goalHandler.Delete)
		api.POST("/goals/:id/enhance", goalHandler.Enhance)

		api.GET("/goals/:id/actions", actionHandler.List)
		api.PUT("/goals/:id/actions", actionHandler.Save)
		api.PATCH("/actions/:id", actionHandler.Update)
		api.POST("/actions/:id/breakdown", actionHandler.BreakDown)
		api.POST("/actions/:id/estimate", actionHandler.Estimate)
		api.POST("/actions/:id/estimate-subtree", actionHandler.EstimateSubtree)

		api.GET("/goals/:id/milestones", milestoneHandler.List)
		api.PUT("/goals/:id/milestones", milestoneHandler.Save)
		api.PATCH("/milestones/:id", milestoneHandler.Update)

		api.GET("/tools", toolsHandler.Get)
		api.POST("/tools", toolsHandler.Generate)
		api.DELETE("/tools", toolsHandler.Delete)

		api.POST("/analyze-task", analyzeHandler.Analyze)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}

// TraceMiddleware propagates the caller's trace id or mints one, and
// echoes it back on the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName)
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

func RequestLogMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("trace_id", trace.FromContext(c.Request.Context())),
		)
	}
}
