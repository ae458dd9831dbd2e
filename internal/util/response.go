package util

import (
	"net/http"

	"github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Status  string              `json:"status"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
	Details string              `json:"details,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
}

// RespondSuccess sends a success envelope
func RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	respondWithAPIError(c, apiErr, nil)
}

// RespondWithAPIErrorData sends an error envelope that also carries data
func RespondWithAPIErrorData(c *gin.Context, apiErr *errors.APIError, data interface{}) {
	respondWithAPIError(c, apiErr, data)
}

func respondWithAPIError(c *gin.Context, apiErr *errors.APIError, data interface{}) {
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("path", c.FullPath()),
			zap.Int("status", apiErr.Status),
		)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("field", apiErr.Field),
		)
	}

	c.JSON(apiErr.Status, ErrorResponse{
		Status:  StatusError,
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Field:   apiErr.Field,
		Details: apiErr.Details,
		Errors:  apiErr.Errors,
		Data:    data,
	})
}

// AbortWithAPIError responds and stops the handler chain
func AbortWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	RespondWithAPIError(c, apiErr)
	c.Abort()
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "user not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFoundMessage sends a 404 with a custom message
func RespondNotFoundMessage(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.NotFoundMessage(message))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	RespondWithAPIError(c, errors.InternalError(message))
}
