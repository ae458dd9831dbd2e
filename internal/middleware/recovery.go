package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// RecoveryMiddleware turns panics into a 500 error envelope
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("path", c.Request.URL.Path),
					logger.WithRequestID(GetRequestID(c)),
					zap.ByteString("stack", debug.Stack()),
				)
				metrics.RecordError("panic", c.FullPath())
				if !c.Writer.Written() {
					util.AbortWithAPIError(c, apierrors.InternalError("Something went wrong"))
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
