// Package handlers implements the HTTP endpoints of the Barefoot Nomad API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/booking"
	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
	"github.com/Mastel22/boondocks-bn-backend/internal/validation"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth    auth.AuthServiceInterface
	twoFA   *twofactor.Service
	booking *booking.Service
	db      *gorm.DB
	redis   *cache.RedisClient

	secureCookies bool
}

// Deps are the services the handlers delegate to. Redis is optional.
type Deps struct {
	Auth    auth.AuthServiceInterface
	TwoFA   *twofactor.Service
	Booking *booking.Service
	DB      *gorm.DB
	Redis   *cache.RedisClient

	// SecureCookies marks the OAuth state cookie Secure
	SecureCookies bool
}

// NewHandlers creates a new handlers instance
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		auth:          deps.Auth,
		twoFA:         deps.TwoFA,
		booking:       deps.Booking,
		db:            deps.DB,
		redis:         deps.Redis,
		secureCookies: deps.SecureCookies,
	}
}

// bind decodes the JSON body into req, answering 400 on failure
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.RespondWithAPIError(c, validation.BindError(err))
		return false
	}
	return true
}

// bindQuery decodes the query string into req, answering 400 on failure
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		util.RespondWithAPIError(c, validation.BindError(err))
		return false
	}
	return true
}
