package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler health check, ping và metrics endpoint
type HealthHandler struct {
	db       *gorm.DB
	gatherer prometheus.Gatherer
	service  string
	version  string
	logger   *zap.Logger
}

// NewHealthHandler tạo handler mới
func NewHealthHandler(db *gorm.DB, gatherer prometheus.Gatherer, service, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		gatherer: gatherer,
		service:  service,
		version:  version,
		logger:   logger,
	}
}

// Health kiểm tra kết nối database
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"version": h.version,
	})
}

// Ping endpoint public
// GET /api/v1/ping
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// RegisterRoutes đăng ký /health, /metrics và /api/v1/ping
func (h *HealthHandler) RegisterRoutes(router *gin.Engine, api *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	api.GET("/ping", h.Ping)
}
