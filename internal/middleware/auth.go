package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

const (
	MsgUnauthorized = "Unauthorized, please provide a valid token"
	MsgForbidden    = "You are not allowed to perform this action"
	MsgUnverified   = "Please verify your email to continue"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware requires a valid access token and loads its user into the context
func AuthMiddleware(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			util.AbortWithAPIError(c, apierrors.Unauthorized(MsgUnauthorized))
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Log.Debug("Access token rejected",
				logger.WithRequestID(GetRequestID(c)),
				zap.Error(err),
			)
			util.AbortWithAPIError(c, apierrors.Unauthorized(MsgUnauthorized))
			return
		}

		util.SetUser(c, user)
		c.Next()
	}
}

// RequireRoles allows only users holding one of roles. Must follow AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			// GetUserFromContext already answered 401
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			util.AbortWithAPIError(c, apierrors.Forbidden(MsgForbidden))
			return
		}
		c.Next()
	}
}

// RequireVerified allows only users who confirmed their email. Must follow AuthMiddleware.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			// GetUserFromContext already answered 401
			c.Abort()
			return
		}
		if !user.IsVerified {
			util.AbortWithAPIError(c, apierrors.Forbidden(MsgUnverified))
			return
		}
		c.Next()
	}
}
