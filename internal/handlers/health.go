package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// Welcome answers the root route
//
//	@Summary	Welcome
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	util.SuccessResponse
//	@Router		/ [get]
func (h *Handlers) Welcome(c *gin.Context) {
	util.RespondSuccess(c, http.StatusOK, "Welcome to Barefoot Nomad", nil)
}

// NotFound answers unknown routes
func (h *Handlers) NotFound(c *gin.Context) {
	util.RespondNotFoundMessage(c, "Not found")
}

// Health reports whether the database and, when configured, redis respond
//
//	@Summary	Health check
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	util.SuccessResponse
//	@Failure	503	{object}	util.SuccessResponse
//	@Router		/health [get]
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	if err := database.Health(ctx, h.db); err != nil {
		logger.Log.Warn("Database health check failed", zap.Error(err))
		checks["database"] = "unavailable"
		healthy = false
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			logger.Log.Warn("Redis health check failed", zap.Error(err))
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, util.SuccessResponse{
			Status:  util.StatusError,
			Message: "Service unhealthy",
			Data:    checks,
		})
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Service healthy", checks)
}
