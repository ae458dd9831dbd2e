package util

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/errors"
)

// ParseIDParam reads a positive numeric path parameter, responding 400 when it is malformed
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		RespondWithAPIError(c, errors.ValidationError(name, "\""+name+"\" must be a positive number"))
		return 0, false
	}
	return uint(id), true
}
