package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/booking"
	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/email"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/handlers"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/middleware"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/sms"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
	"github.com/Mastel22/boondocks-bn-backend/internal/validation"
)

type envelope struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  []apierrors.FieldError `json:"errors"`
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		AppURL:             "http://api.test",
		FrontendURL:        "http://app.test",
		CORSAllowedOrigins: []string{"http://localhost"},
		AuthRateLimit:      config.RateLimit{Requests: 1000, Window: time.Minute},
		JWT: config.JWTConfig{
			Secret:          "router_test_secret",
			AccessTTL:       time.Hour,
			VerifyTTL:       time.Hour,
			ResetTTL:        time.Hour,
			TwoFAPendingTTL: 5 * time.Minute,
		},
	}
}

// RouterTestSuite drives the API end to end over an in-memory database
type RouterTestSuite struct {
	suite.Suite
	db      *gorm.DB
	users   repository.UserRepository
	mailer  *email.MockMailer
	sender  *sms.MockSender
	authSvc *auth.Service
	store   *cache.MemoryStore
	router  *gin.Engine
}

func (suite *RouterTestSuite) SetupTest() {
	t := suite.T()
	logger.InitializeForTest()
	require.NoError(t, validation.Register())
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	suite.db = db

	suite.store, err = cache.NewMemoryStore(1 << 20)
	require.NoError(t, err)

	cfg := testConfig()
	suite.users = repository.NewUserRepository(db)
	suite.mailer = email.NewMockMailer()
	suite.sender = sms.NewMockSender()
	twoFA := twofactor.NewService(suite.users, suite.sender)
	suite.authSvc = auth.NewService(cfg, suite.users, suite.mailer, twoFA)
	bookingSvc := booking.NewService(booking.Options{
		Locations: repository.NewLocationRepository(db),
		Hotels:    repository.NewHotelRepository(db),
		Bookings:  repository.NewBookingRepository(db),
		Trips:     repository.NewTripRepository(db),
		Cache:     suite.store,
	})

	h := handlers.NewHandlers(handlers.Deps{
		Auth:    suite.authSvc,
		TwoFA:   twoFA,
		Booking: bookingSvc,
		DB:      db,
	})
	suite.router = NewRouter(Options{Config: cfg, Handlers: h, Authenticator: suite.authSvc})
}

func (suite *RouterTestSuite) TearDownTest() {
	suite.store.Close()
	_ = database.Close(suite.db)
}

func (suite *RouterTestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// userWithToken creates a verified user of role and returns an access token for them
func (suite *RouterTestSuite) userWithToken(emailAddr string, role models.Role) (*models.User, string) {
	user := &models.User{FirstName: "Test", LastName: "User", Email: emailAddr, Role: role, IsVerified: true}
	require.NoError(suite.T(), suite.users.CreateUser(context.Background(), user))
	token, err := suite.authSvc.Tokens().Sign(user, auth.PurposeAccess, time.Hour)
	require.NoError(suite.T(), err)
	return user, token
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(validation.DateLayout)
}

func linkToken(t *testing.T, link string) string {
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func (suite *RouterTestSuite) TestWelcomeAndNotFound() {
	w, env := suite.do("GET", "/", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("success", env.Status)
	suite.Equal("Welcome to Barefoot Nomad", env.Message)

	w, env = suite.do("GET", "/api/v1/nowhere", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("error", env.Status)
	suite.Equal("Not found", env.Message)
}

func (suite *RouterTestSuite) TestHealth() {
	w, env := suite.do("GET", "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"database":"ok"}`, string(env.Data))
}

func (suite *RouterTestSuite) TestSignupVerifySignin() {
	t := suite.T()
	signup := dto.SignupRequest{FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "password123"}

	w, env := suite.do("POST", "/api/v1/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.SignupResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "jane@example.com", created.Email)
	assert.NotEmpty(t, created.Token)

	w, env = suite.do("POST", "/api/v1/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, handlers.MsgEmailInUse, env.Message)

	// Unverified users cannot book
	w, env = suite.do("POST", "/api/v1/booking", created.Token, dto.BookingRequest{
		HotelID: 1, Rooms: []uint{1}, ArrivalDate: day(1), LeavingDate: day(2),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgUnverified, env.Message)

	sent := suite.mailer.Last("verification")
	require.NotNil(t, sent)
	assert.True(t, strings.HasPrefix(sent.Link, "http://api.test/api/v1/auth/verification?token="))
	verifyToken := linkToken(t, sent.Link)

	w, env = suite.do("GET", "/api/v1/auth/verification?token="+url.QueryEscape(verifyToken), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email has been verified successfully, please proceed to log in", env.Message)

	w, env = suite.do("GET", "/api/v1/auth/verification?token="+url.QueryEscape(verifyToken), "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, handlers.MsgAlreadyVerified, env.Message)

	w, env = suite.do("GET", "/api/v1/auth/verification?token=garbage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, handlers.MsgInvalidVerifyToken, env.Message)

	w, env = suite.do("POST", "/api/v1/auth/signin", "", dto.SigninRequest{Email: "jane@example.com", Password: "wrongpass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, handlers.MsgInvalidCredentials, env.Message)

	w, env = suite.do("POST", "/api/v1/auth/signin", "", dto.SigninRequest{Email: "jane@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var signin dto.SigninResponse
	require.NoError(t, json.Unmarshal(env.Data, &signin))
	assert.True(t, signin.IsVerified)
	assert.Equal(t, string(models.RoleRequester), signin.Role)

	w, env = suite.do("GET", "/api/v1/users/me", signin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Jane", me.FirstName)
}

func (suite *RouterTestSuite) TestSignupValidation() {
	w, env := suite.do("POST", "/api/v1/auth/signup", "", dto.SignupRequest{
		FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "short1",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", env.Code)
	suite.Equal(`"password" length must be at least 8 characters long`, env.Message)

	w, env = suite.do("POST", "/api/v1/auth/signup", "", map[string]string{
		"firstName": " Jane", "lastName": "Nomad", "email": "not-an-email", "password": "password123",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Len(env.Errors, 2)
}

func (suite *RouterTestSuite) TestResendVerification() {
	w, env := suite.do("GET", "/api/v1/auth/reverifyUser?email=ghost@example.com", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(handlers.MsgNoAccount, env.Message)

	_, _ = suite.do("POST", "/api/v1/auth/signup", "", dto.SignupRequest{
		FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "password123",
	})
	w, env = suite.do("GET", "/api/v1/auth/reverifyUser?email=jane@example.com", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Email has been resent successfully, please check your mail", env.Message)
}

func (suite *RouterTestSuite) TestPasswordReset() {
	t := suite.T()
	_, _ = suite.do("POST", "/api/v1/auth/signup", "", dto.SignupRequest{
		FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "password123",
	})

	w, env := suite.do("POST", "/api/v1/auth/forgotPassword", "", dto.EmailRequest{Email: "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = suite.do("POST", "/api/v1/auth/forgotPassword", "", dto.EmailRequest{Email: "jane@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset link has been sent to your email", env.Message)

	sent := suite.mailer.Last("reset")
	require.NotNil(t, sent)
	assert.True(t, strings.HasPrefix(sent.Link, "http://app.test/reset-password?token="))
	path := "/api/v1/auth/resetPassword?token=" + url.QueryEscape(linkToken(t, sent.Link))

	w, env = suite.do("PATCH", path, "", dto.ResetPasswordRequest{Password: "newpassword1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password has been reset successfully, please log in", env.Message)

	w, env = suite.do("PATCH", path, "", dto.ResetPasswordRequest{Password: "another123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, handlers.MsgInvalidResetToken, env.Message)

	w, _ = suite.do("POST", "/api/v1/auth/signin", "", dto.SigninRequest{Email: "jane@example.com", Password: "newpassword1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestAuthenticatorTwoFA() {
	t := suite.T()
	_, _ = suite.do("POST", "/api/v1/auth/signup", "", dto.SignupRequest{
		FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "password123",
	})
	_, env := suite.do("POST", "/api/v1/auth/signin", "", dto.SigninRequest{Email: "jane@example.com", Password: "password123"})
	var signin dto.SigninResponse
	require.NoError(t, json.Unmarshal(env.Data, &signin))

	w, env := suite.do("POST", "/api/v1/auth/2fa/verify", signin.Token, dto.TwoFAVerifyRequest{Token: "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.MsgTwoFANotEnabled, env.Message)

	w, env = suite.do("POST", "/api/v1/auth/2fa", signin.Token, dto.TwoFASetupRequest{TwoFAType: "authenticator_app"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "TOTP Secret created", env.Message)
	var setup dto.TwoFAResponse
	require.NoError(t, json.Unmarshal(env.Data, &setup))
	assert.Equal(t, "authenticator_app_temp", setup.TwoFAType)
	assert.True(t, strings.HasPrefix(setup.TwoFADataURL, "data:image/png;base64,"))

	code, err := totp.GenerateCode(setup.TwoFASecret, time.Now())
	require.NoError(t, err)
	w, env = suite.do("POST", "/api/v1/auth/2fa/verify", signin.Token, dto.TwoFAVerifyRequest{Token: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Valid TOTP token", env.Message)
	assert.Contains(t, string(env.Data), `"isTokenValid":true`)
	assert.Contains(t, string(env.Data), `"twoFAType":"authenticator_app"`)

	// Signin now stops at the second factor
	_, env = suite.do("POST", "/api/v1/auth/signin", "", dto.SigninRequest{Email: "jane@example.com", Password: "password123"})
	var pending dto.SigninResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	assert.True(t, pending.TwoFARequired)
	assert.Empty(t, pending.Token)

	w, env = suite.do("POST", "/api/v1/auth/2fa/signin", "", dto.TwoFASigninRequest{TwoFAToken: pending.TwoFAToken, Token: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var done dto.SigninResponse
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.NotEmpty(t, done.Token)

	w, env = suite.do("GET", "/api/v1/auth/2fa", done.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TOTP Secret retrieved", env.Message)

	w, env = suite.do("DELETE", "/api/v1/auth/2fa", done.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TOTP Secret removed", env.Message)
	assert.Contains(t, string(env.Data), `"twoFAType":"none"`)
}

func (suite *RouterTestSuite) TestSMSTwoFA() {
	t := suite.T()
	_, token := suite.userWithToken("sms@example.com", models.RoleRequester)

	w, env := suite.do("POST", "/api/v1/auth/2fa", token, dto.TwoFASetupRequest{TwoFAType: "sms_text"})
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, handlers.MsgPhoneRequired, env.Message)
	assert.Equal(t, 0, suite.sender.Count())

	w, env = suite.do("POST", "/api/v1/auth/2fa", token, dto.TwoFASetupRequest{TwoFAType: "sms_text", PhoneNumber: "+250788000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"phoneNumber":"+250788000000"`)
	assert.Contains(t, string(env.Data), `"twoFAType":"sms_text_temp"`)
	require.Equal(t, 1, suite.sender.Count())

	// The texted passcode confirms the pending setup
	sent := suite.sender.Last()
	assert.Equal(t, "+250788000000", sent.Phone)
	require.True(t, strings.HasPrefix(sent.Message, twofactor.PasscodeMessage("")))
	code := strings.TrimPrefix(sent.Message, twofactor.PasscodeMessage(""))
	require.Len(t, code, 6)

	w, env = suite.do("POST", "/api/v1/auth/2fa/verify", token, dto.TwoFAVerifyRequest{Token: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Valid TOTP token", env.Message)
	assert.Contains(t, string(env.Data), `"isTokenValid":true`)
	assert.Contains(t, string(env.Data), `"twoFAType":"sms_text"`)

	w, env = suite.do("POST", "/api/v1/auth/2fa/sms", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TOTP token sent", env.Message)
	assert.Equal(t, 2, suite.sender.Count())

	suite.sender.Err = assert.AnError
	w, _ = suite.do("POST", "/api/v1/auth/2fa/sms", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func (suite *RouterTestSuite) TestUnauthenticated() {
	w, env := suite.do("GET", "/api/v1/users/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(middleware.MsgUnauthorized, env.Message)

	w, _ = suite.do("GET", "/api/v1/booking", "not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestRoles() {
	t := suite.T()
	_, requester := suite.userWithToken("requester@example.com", models.RoleRequester)
	_, super := suite.userWithToken("root@example.com", models.RoleSuperAdministrator)

	w, env := suite.do("PATCH", "/api/v1/users/role", requester, dto.SetRoleRequest{Email: "requester@example.com", Role: "suppliers"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgForbidden, env.Message)

	w, env = suite.do("PATCH", "/api/v1/users/role", super, dto.SetRoleRequest{Email: "requester@example.com", Role: "travel_administrator"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"role":"travel_administrator"`)

	w, _ = suite.do("PATCH", "/api/v1/users/role", super, dto.SetRoleRequest{Email: "ghost@example.com", Role: "suppliers"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = suite.do("POST", "/api/v1/locations", requester, dto.CreateLocationRequest{City: "Kigali", Country: "Rwanda"})
	assert.Equal(t, http.StatusCreated, w.Code, "role change applies to the next request")

	w, env = suite.do("POST", "/api/v1/locations", requester, dto.CreateLocationRequest{City: "Kigali", Country: "Rwanda"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, handlers.MsgLocationExists, env.Message)
}

// hotelWithRooms creates a location, a hotel owned by a new supplier and n rooms
func (suite *RouterTestSuite) hotelWithRooms(n int) (uint, []uint) {
	t := suite.T()
	_, admin := suite.userWithToken("admin@example.com", models.RoleTravelAdministrator)
	_, supplier := suite.userWithToken("supplier@example.com", models.RoleSupplier)

	w, env := suite.do("POST", "/api/v1/locations", admin, dto.CreateLocationRequest{City: "Kigali", Country: "Rwanda"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var location models.Location
	require.NoError(t, json.Unmarshal(env.Data, &location))

	w, env = suite.do("POST", "/api/v1/hotels", supplier, dto.CreateHotelRequest{LocationID: location.ID, Name: "Marriott"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var hotel models.Hotel
	require.NoError(t, json.Unmarshal(env.Data, &hotel))

	var rooms []uint
	for i := 0; i < n; i++ {
		w, env = suite.do("POST", "/api/v1/hotels/"+itoa(hotel.ID)+"/rooms", supplier, dto.CreateRoomRequest{Name: "Room", Cost: 100})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var room models.Room
		require.NoError(t, json.Unmarshal(env.Data, &room))
		rooms = append(rooms, room.ID)
	}
	return hotel.ID, rooms
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (suite *RouterTestSuite) TestHotels() {
	t := suite.T()
	hotelID, rooms := suite.hotelWithRooms(2)
	_, requester := suite.userWithToken("requester@example.com", models.RoleRequester)

	w, _ := suite.do("POST", "/api/v1/hotels", requester, dto.CreateHotelRequest{LocationID: 1, Name: "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := suite.do("GET", "/api/v1/hotels/"+itoa(hotelID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Marriott"`)

	w, env = suite.do("GET", "/api/v1/hotels/"+itoa(hotelID)+"/rooms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Room
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, len(rooms))

	w, _ = suite.do("GET", "/api/v1/hotels/9", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = suite.do("GET", "/api/v1/hotels/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func (suite *RouterTestSuite) TestBooking() {
	t := suite.T()
	hotelID, rooms := suite.hotelWithRooms(2)
	_, token := suite.userWithToken("traveler@example.com", models.RoleRequester)

	w, env := suite.do("POST", "/api/v1/booking", token, dto.BookingRequest{
		HotelID: hotelID, Rooms: rooms, ArrivalDate: day(1), LeavingDate: day(3),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Accommodation booked successfully", env.Message)
	var booked dto.BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &booked))
	assert.Len(t, booked.Bookings, 2)

	tests := []struct {
		name    string
		req     dto.BookingRequest
		status  int
		message string
	}{
		{"overlap", dto.BookingRequest{HotelID: hotelID, Rooms: rooms[:1], ArrivalDate: day(3), LeavingDate: day(4)}, http.StatusConflict, handlers.MsgRoomsBooked},
		{"arrival in past", dto.BookingRequest{HotelID: hotelID, Rooms: rooms, ArrivalDate: day(-1), LeavingDate: day(2)}, http.StatusBadRequest, handlers.MsgArrivalInPast},
		{"leaving in past", dto.BookingRequest{HotelID: hotelID, Rooms: rooms, ArrivalDate: day(0), LeavingDate: day(-1)}, http.StatusBadRequest, handlers.MsgLeavingInPast},
		{"leaving before arrival", dto.BookingRequest{HotelID: hotelID, Rooms: rooms, ArrivalDate: day(5), LeavingDate: day(4)}, http.StatusBadRequest, handlers.MsgLeavingBeforeArr},
		{"foreign room", dto.BookingRequest{HotelID: hotelID, Rooms: []uint{99}, ArrivalDate: day(5), LeavingDate: day(6)}, http.StatusConflict, handlers.MsgRoomsNotInHotel},
		{"unknown hotel", dto.BookingRequest{HotelID: 42, Rooms: rooms, ArrivalDate: day(5), LeavingDate: day(6)}, http.StatusNotFound, "Hotel not found"},
		{"bad date", dto.BookingRequest{HotelID: hotelID, Rooms: rooms, ArrivalDate: "tomorrow", LeavingDate: day(6)}, http.StatusBadRequest, `"arrivalDate" must be a date in YYYY-MM-DD format`},
	}
	for _, tt := range tests {
		w, env := suite.do("POST", "/api/v1/booking", token, tt.req)
		assert.Equal(t, tt.status, w.Code, tt.name)
		assert.Equal(t, tt.message, env.Message, tt.name)
	}

	w, env = suite.do("GET", "/api/v1/booking", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bookings retrieved successfully", env.Message)
	var mine []models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 2)
}

func (suite *RouterTestSuite) TestTrips() {
	t := suite.T()
	hotelID, rooms := suite.hotelWithRooms(1)
	_, token := suite.userWithToken("traveler@example.com", models.RoleRequester)
	_, admin := suite.userWithToken("travel@example.com", models.RoleTravelAdministrator)

	trip := dto.TripRequest{
		LeavingFrom: "Kigali", GoingTo: "Nairobi", TravelDate: day(2), Reason: "Conference",
		HotelID: hotelID, Type: "return", Rooms: rooms,
	}
	w, env := suite.do("POST", "/api/v1/trips", token, trip)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handlers.MsgReturnDateRequired, env.Message)

	trip.ReturnDate = day(5)
	w, env = suite.do("POST", "/api/v1/trips", token, trip)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Trip
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.TripPending, created.Status)

	w, env = suite.do("POST", "/api/v1/trips", token, trip)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, handlers.MsgRoomsReserved, env.Message)

	path := "/api/v1/trips/" + itoa(created.ID) + "/status"
	w, _ = suite.do("PATCH", path, token, dto.TripStatusRequest{Status: "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = suite.do("PATCH", path, admin, dto.TripStatusRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	w, env = suite.do("GET", "/api/v1/trips", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trips []models.Trip
	require.NoError(t, json.Unmarshal(env.Data, &trips))
	assert.Len(t, trips, 1)
}

func (suite *RouterTestSuite) TestCORS() {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("http://localhost", w.Header().Get("Access-Control-Allow-Origin"))
	suite.Equal("true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	logger.InitializeForTest()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.AuthRateLimit = config.RateLimit{Requests: 2, Window: time.Minute}
	mockAuth := auth.NewMockAuthService()
	router := NewRouter(Options{
		Config:        cfg,
		Handlers:      handlers.NewHandlers(handlers.Deps{Auth: mockAuth}),
		Authenticator: mockAuth,
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/verification?token=x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.True(t, mockAuth.AssertCalled("VerifyAccount"))
}
