// Package server assembles the gin engine: middleware chain and API routes.
package server

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/handlers"
	"github.com/Mastel22/boondocks-bn-backend/internal/middleware"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// Options configures NewRouter. Redis is optional.
type Options struct {
	Config        *config.Config
	Handlers      *handlers.Handlers
	Authenticator auth.Authenticator
	Redis         *cache.RedisClient
}

// NewRouter builds the engine with every route of the API
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	h := opts.Handlers

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.RequestIDMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.MetricsMiddleware(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingMiddleware(cfg.Telemetry.ServiceName)...)
	}

	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(h.NotFound)

	requireAuth := middleware.AuthMiddleware(opts.Authenticator)
	admins := middleware.RequireRoles(models.RoleTravelAdministrator, models.RoleSuperAdministrator)
	hotelManagers := middleware.RequireRoles(models.RoleTravelAdministrator, models.RoleSupplier, models.RoleSuperAdministrator)
	superAdmin := middleware.RequireRoles(models.RoleSuperAdministrator)
	verified := middleware.RequireVerified()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RedisRateLimitMiddleware(opts.Redis, middleware.AuthRateLimitConfig(cfg.AuthRateLimit), "auth"))
		{
			authGroup.POST("/signup", h.Signup)
			authGroup.POST("/signin", h.Signin)
			authGroup.GET("/verification", h.VerifyAccount)
			authGroup.GET("/reverifyUser", h.ResendVerification)
			authGroup.POST("/forgotPassword", h.ForgotPassword)
			authGroup.PATCH("/resetPassword", h.ResetPassword)

			authGroup.GET("/google", h.GoogleLogin)
			authGroup.GET("/google/callback", h.GoogleCallback)

			authGroup.POST("/2fa/signin", h.TwoFASignin)
			twoFA := authGroup.Group("/2fa", requireAuth)
			{
				twoFA.POST("", h.SetupTwoFA)
				twoFA.GET("", h.GetTwoFA)
				twoFA.DELETE("", h.RemoveTwoFA)
				twoFA.POST("/verify", h.VerifyTwoFA)
				twoFA.POST("/sms", h.SendTwoFACode)
			}
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", h.GetMe)
			users.PATCH("/me", h.UpdateMe)
			users.PATCH("/role", superAdmin, h.SetRole)
		}

		api.GET("/locations", h.ListLocations)
		api.POST("/locations", requireAuth, admins, h.CreateLocation)

		hotels := api.Group("/hotels")
		{
			hotels.GET("", h.ListHotels)
			hotels.GET("/:id", h.GetHotel)
			hotels.GET("/:id/rooms", h.ListRooms)
			hotels.POST("", requireAuth, hotelManagers, h.CreateHotel)
			hotels.POST("/:id/image", requireAuth, hotelManagers, h.UploadHotelImage)
			hotels.POST("/:id/rooms", requireAuth, hotelManagers, h.AddRoom)
		}

		bookings := api.Group("/booking", requireAuth)
		{
			bookings.POST("", verified, h.CreateBooking)
			bookings.GET("", h.ListBookings)
		}

		trips := api.Group("/trips", requireAuth)
		{
			trips.POST("", verified, h.CreateTrip)
			trips.GET("", h.ListTrips)
			trips.PATCH("/:id/status", admins, h.UpdateTripStatus)
		}
	}

	return r
}

// corsConfig allows the listed origins with credentials. Requests without an
// Origin header (curl, mobile apps) are not CORS requests and pass untouched.
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOriginFunc = func(origin string) bool {
		return slices.Contains(origins, origin)
	}
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	return config
}
