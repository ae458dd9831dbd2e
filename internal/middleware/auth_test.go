package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

func authRouter(svc *auth.MockAuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	router.GET("/private", handlers...)
	return router
}

func get(router http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/private", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("Authorization", tt.header)
		assert.Equal(t, tt.want, BearerToken(c), "header %q", tt.header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	logger.InitializeForTest()
	svc := auth.NewMockAuthService()
	svc.AddUser("good", &models.User{ID: 1, Email: "nomad@example.com", Role: models.RoleRequester, IsVerified: true})
	router := authRouter(svc)

	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), MsgUnauthorized)
	assert.False(t, svc.AssertCalled("Authenticate"), "missing header must not reach the service")

	w = get(router, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nomad@example.com")
}

func TestRequireRoles(t *testing.T) {
	logger.InitializeForTest()
	svc := auth.NewMockAuthService()
	svc.AddUser("requester", &models.User{ID: 1, Email: "r@example.com", Role: models.RoleRequester, IsVerified: true})
	svc.AddUser("admin", &models.User{ID: 2, Email: "a@example.com", Role: models.RoleSuperAdministrator, IsVerified: true})
	router := authRouter(svc, RequireRoles(models.RoleSuperAdministrator))

	w := get(router, "Bearer requester")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), MsgForbidden)

	w = get(router, "Bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesWithoutUser(t *testing.T) {
	logger.InitializeForTest()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", RequireRoles(models.RoleSupplier), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireVerified(t *testing.T) {
	logger.InitializeForTest()
	svc := auth.NewMockAuthService()
	svc.AddUser("fresh", &models.User{ID: 1, Email: "fresh@example.com", Role: models.RoleRequester})
	svc.AddUser("verified", &models.User{ID: 2, Email: "ok@example.com", Role: models.RoleRequester, IsVerified: true})
	router := authRouter(svc, RequireVerified())

	w := get(router, "Bearer fresh")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), MsgUnverified)

	w = get(router, "Bearer verified")
	assert.Equal(t, http.StatusOK, w.Code)
}
