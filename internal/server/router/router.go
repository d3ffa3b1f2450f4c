package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/server/handlers"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	{
		api.GET("/tanks", handler.ListTanks)
		api.GET("/tanks/:id/table", handler.TankTable)

		api.POST("/calculate", handler.Calculate)

		api.GET("/records", handler.ListRecords)
		api.POST("/records", handler.SaveRecord)
		api.PUT("/records", handler.RestoreRecords)
		api.GET("/records/dates", handler.RecordDates)
		api.DELETE("/records/:id", handler.DeleteRecord)

		api.GET("/analytics", handler.Analytics)

		api.GET("/export/csv", handler.ExportCSV)
		api.GET("/export/xlsx", handler.ExportXLSX)
		api.POST("/export/csv/save", handler.SaveCSV)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
