package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/email"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/sms"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
)

// racingUsers misses every email lookup, as a signup does when another request
// for the same address has not committed yet
type racingUsers struct {
	repository.UserRepository
}

func (racingUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

// AuthServiceTestSuite contains auth service tests
type AuthServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	users       repository.UserRepository
	mailer      *email.MockMailer
	sender      *sms.MockSender
	twoFA       *twofactor.Service
	authService *Service
}

func testConfig() *config.Config {
	return &config.Config{
		AppURL:      "http://api.test",
		FrontendURL: "http://app.test",
		JWT: config.JWTConfig{
			Secret:          "test_jwt_secret_key",
			AccessTTL:       time.Hour,
			VerifyTTL:       time.Hour,
			ResetTTL:        time.Hour,
			TwoFAPendingTTL: 5 * time.Minute,
		},
	}
}

// SetupTest gives every test a fresh database
func (suite *AuthServiceTestSuite) SetupTest() {
	logger.InitializeForTest()

	db, err := database.OpenInMemory()
	require.NoError(suite.T(), err)
	suite.db = db

	suite.users = repository.NewUserRepository(db)
	suite.mailer = email.NewMockMailer()
	suite.sender = sms.NewMockSender()
	suite.twoFA = twofactor.NewService(suite.users, suite.sender)
	suite.authService = NewService(testConfig(), suite.users, suite.mailer, suite.twoFA)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	_ = database.Close(suite.db)
}

func (suite *AuthServiceTestSuite) signup(emailAddr string) *dto.SignupResponse {
	resp, err := suite.authService.Signup(context.Background(), dto.SignupRequest{
		FirstName: "Jane",
		LastName:  "Traveler",
		Email:     emailAddr,
		Password:  "password123",
	})
	require.NoError(suite.T(), err)
	return resp
}

func tokenFromLink(t *testing.T, link string) string {
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

// TestSignup tests registration and the verification email
func (suite *AuthServiceTestSuite) TestSignup() {
	t := suite.T()

	resp := suite.signup("Jane@Example.com")
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	sent := suite.mailer.Last("verification")
	require.NotNil(t, sent)
	assert.Equal(t, "jane@example.com", sent.To)
	assert.True(t, strings.HasPrefix(sent.Link, "http://api.test/api/v1/auth/verification?token="))

	user, err := suite.users.GetUserByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRequester, user.Role)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "password123", *user.PasswordHash)

	// Duplicate email, any case
	_, err = suite.authService.Signup(context.Background(), dto.SignupRequest{
		FirstName: "Other", LastName: "Person", Email: "JANE@example.com", Password: "password456",
	})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

// TestSignupMailFailure tests that delivery problems do not fail registration
func (suite *AuthServiceTestSuite) TestSignupMailFailure() {
	suite.mailer.Err = assert.AnError
	resp := suite.signup("nomail@example.com")
	assert.NotEmpty(suite.T(), resp.Token)
}

// TestSignin tests password signin
func (suite *AuthServiceTestSuite) TestSignupRaceOnEmail() {
	t := suite.T()
	service := NewService(testConfig(), racingUsers{suite.users}, suite.mailer, suite.twoFA)
	req := dto.SignupRequest{FirstName: "Jane", LastName: "Nomad", Email: "jane@example.com", Password: "password123"}

	_, err := service.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func (suite *AuthServiceTestSuite) TestSignin() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("login@example.com")

	resp, err := suite.authService.Signin(ctx, dto.SigninRequest{Email: "LOGIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.TwoFARequired)
	assert.Equal(t, "requester", resp.Role)

	user, err := suite.authService.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)

	_, err = suite.authService.Signin(ctx, dto.SigninRequest{Email: "login@example.com", Password: "wrongpass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = suite.authService.Signin(ctx, dto.SigninRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestVerifyAccount tests the email verification link
func (suite *AuthServiceTestSuite) TestVerifyAccount() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("verify@example.com")

	token := tokenFromLink(t, suite.mailer.Last("verification").Link)
	require.NoError(t, suite.authService.VerifyAccount(ctx, token))

	user, err := suite.users.GetUserByEmail(ctx, "verify@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	assert.ErrorIs(t, suite.authService.VerifyAccount(ctx, token), ErrAlreadyVerified)
	assert.ErrorIs(t, suite.authService.VerifyAccount(ctx, "not-a-token"), ErrInvalidVerifyToken)
	assert.ErrorIs(t, suite.authService.ResendVerification(ctx, "verify@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, suite.authService.ResendVerification(ctx, "missing@example.com"), ErrUserNotFound)
}

// TestVerifyWithSignupToken tests that the signup token also verifies
func (suite *AuthServiceTestSuite) TestVerifyWithSignupToken() {
	resp := suite.signup("signup-token@example.com")
	assert.NoError(suite.T(), suite.authService.VerifyAccount(context.Background(), resp.Token))
}

// TestPasswordReset tests the forgot/reset flow and that reset links are single use
func (suite *AuthServiceTestSuite) TestPasswordReset() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("reset@example.com")

	assert.ErrorIs(t, suite.authService.ForgotPassword(ctx, "unknown@example.com"), ErrUserNotFound)

	require.NoError(t, suite.authService.ForgotPassword(ctx, "reset@example.com"))
	sent := suite.mailer.Last("reset")
	require.NotNil(t, sent)
	assert.True(t, strings.HasPrefix(sent.Link, "http://app.test/reset-password?token="))
	token := tokenFromLink(t, sent.Link)

	require.NoError(t, suite.authService.ResetPassword(ctx, token, "newpassword1"))

	_, err := suite.authService.Signin(ctx, dto.SigninRequest{Email: "reset@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = suite.authService.Signin(ctx, dto.SigninRequest{Email: "reset@example.com", Password: "newpassword1"})
	assert.NoError(t, err)

	assert.ErrorIs(t, suite.authService.ResetPassword(ctx, token, "another1234"), ErrInvalidResetToken)
}

// TestTokenPurposes tests that tokens only work for what they were issued for
func (suite *AuthServiceTestSuite) TestTokenPurposes() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("purpose@example.com")

	verifyToken := tokenFromLink(t, suite.mailer.Last("verification").Link)
	_, err := suite.authService.Authenticate(ctx, verifyToken)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	assert.ErrorIs(t, suite.authService.ResetPassword(ctx, verifyToken, "password999"), ErrInvalidResetToken)

	other := NewService(&config.Config{JWT: config.JWTConfig{Secret: "other", AccessTTL: time.Hour}}, suite.users, suite.mailer, suite.twoFA)
	resp, err := other.Signin(ctx, dto.SigninRequest{Email: "purpose@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = suite.authService.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

// TestExpiredToken tests expiry with a moved clock
func (suite *AuthServiceTestSuite) TestExpiredToken() {
	t := suite.T()
	resp := suite.signup("expired@example.com")

	suite.authService.Tokens().now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := suite.authService.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

// TestSigninWithSMSTwoFA tests that SMS users get a passcode and a pending token
func (suite *AuthServiceTestSuite) TestSigninWithSMSTwoFA() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("sms@example.com")

	user, err := suite.users.GetUserByEmail(ctx, "sms@example.com")
	require.NoError(t, err)
	_, err = suite.twoFA.SetupSecret(ctx, user, models.TwoFASMSText, "+250788000000")
	require.NoError(t, err)
	require.Equal(t, 1, suite.sender.Count())

	code := lastCode(t, suite.sender)
	_, err = suite.twoFA.VerifyUser(ctx, user, code)
	require.NoError(t, err)

	resp, err := suite.authService.Signin(ctx, dto.SigninRequest{Email: "sms@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, resp.TwoFARequired)
	assert.Empty(t, resp.Token)
	assert.Equal(t, string(models.TwoFASMSText), resp.TwoFAType)
	assert.Equal(t, 2, suite.sender.Count())
	assert.Equal(t, "+250788000000", suite.sender.Last().Phone)

	_, err = suite.authService.CompleteTwoFASignin(ctx, resp.TwoFAToken, "000000x")
	assert.ErrorIs(t, err, twofactor.ErrInvalidCode)

	final, err := suite.authService.CompleteTwoFASignin(ctx, resp.TwoFAToken, lastCode(t, suite.sender))
	require.NoError(t, err)
	assert.NotEmpty(t, final.Token)

	// A pending token is not an access token
	_, err = suite.authService.Authenticate(ctx, resp.TwoFAToken)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

// TestSigninWithAuthenticatorApp tests the authenticator app flow
func (suite *AuthServiceTestSuite) TestSigninWithAuthenticatorApp() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("app@example.com")

	user, err := suite.users.GetUserByEmail(ctx, "app@example.com")
	require.NoError(t, err)
	setup, err := suite.twoFA.SetupSecret(ctx, user, models.TwoFAAuthenticatorApp, "")
	require.NoError(t, err)
	assert.Equal(t, string(models.TwoFAAuthenticatorAppTmp), setup.TwoFAType)
	assert.True(t, strings.HasPrefix(setup.TwoFADataURL, "data:image/png;base64,"))

	// Not active until confirmed
	resp, err := suite.authService.Signin(ctx, dto.SigninRequest{Email: "app@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, resp.TwoFARequired)

	code, err := totp.GenerateCode(setup.TwoFASecret, time.Now().UTC())
	require.NoError(t, err)
	verified, err := suite.twoFA.VerifyUser(ctx, user, code)
	require.NoError(t, err)
	assert.Equal(t, string(models.TwoFAAuthenticatorApp), verified.TwoFAType)

	resp, err = suite.authService.Signin(ctx, dto.SigninRequest{Email: "app@example.com", Password: "password123"})
	require.NoError(t, err)
	require.True(t, resp.TwoFARequired)
	assert.Equal(t, 0, suite.sender.Count())

	code, err = totp.GenerateCode(setup.TwoFASecret, time.Now().UTC())
	require.NoError(t, err)
	final, err := suite.authService.CompleteTwoFASignin(ctx, resp.TwoFAToken, code)
	require.NoError(t, err)
	assert.Equal(t, "app@example.com", final.Email)
}

// TestSetRole tests role assignment
func (suite *AuthServiceTestSuite) TestSetRole() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("role@example.com")

	user, err := suite.authService.SetRole(ctx, "role@example.com", models.RoleTravelAdministrator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTravelAdministrator, user.Role)

	stored, err := suite.users.GetUserByEmail(ctx, "role@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTravelAdministrator, stored.Role)

	_, err = suite.authService.SetRole(ctx, "role@example.com", models.Role("pilot"))
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = suite.authService.SetRole(ctx, "ghost@example.com", models.RoleSupplier)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// TestUpdateProfile tests partial profile updates
func (suite *AuthServiceTestSuite) TestUpdateProfile() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("profile@example.com")

	user, err := suite.users.GetUserByEmail(ctx, "profile@example.com")
	require.NoError(t, err)

	first := "Janet"
	phone := "+250788111111"
	updated, err := suite.authService.UpdateProfile(ctx, user, dto.UpdateProfileRequest{FirstName: &first, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Traveler", updated.LastName)

	stored, err := suite.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", stored.FirstName)
	assert.Equal(t, "+250788111111", stored.PhoneNumber)
}

// TestFindOrCreateUserFromOAuth tests Google account linking
func (suite *AuthServiceTestSuite) TestFindOrCreateUserFromOAuth() {
	t := suite.T()
	ctx := context.Background()
	suite.signup("linked@example.com")

	user, err := suite.authService.findOrCreateUserFromOAuth(ctx, &OAuthUserInfo{
		ID: "google-1", Email: "Linked@example.com", EmailVerified: true, FirstName: "Jane",
	})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	require.NotNil(t, user.GoogleID)

	again, err := suite.authService.findOrCreateUserFromOAuth(ctx, &OAuthUserInfo{ID: "google-1", Email: "changed@example.com"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, err = suite.authService.findOrCreateUserFromOAuth(ctx, &OAuthUserInfo{ID: "google-2", Email: "linked@example.com"})
	assert.ErrorIs(t, err, ErrOAuthEmailUnverified)

	created, err := suite.authService.findOrCreateUserFromOAuth(ctx, &OAuthUserInfo{
		ID: "google-3", Email: "new@example.com", EmailVerified: true, FirstName: "New", LastName: "User",
	})
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, created.ID)
	assert.True(t, created.IsVerified)
	assert.False(t, created.HasPassword())

	_, err = suite.authService.GoogleAuthURL("state")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestToOAuthUserInfo(t *testing.T) {
	info := toOAuthUserInfo(GoogleUserInfo{Sub: "1", Email: "a@b.c", Name: "Ada King Lovelace"})
	assert.Equal(t, "Ada", info.FirstName)
	assert.Equal(t, "King Lovelace", info.LastName)

	info = toOAuthUserInfo(GoogleUserInfo{Sub: "2", Email: "solo@b.c"})
	assert.Equal(t, "solo", info.FirstName)
}

func lastCode(t *testing.T, sender *sms.MockSender) string {
	msg := sender.Last()
	require.NotNil(t, msg)
	require.True(t, strings.HasPrefix(msg.Message, "Your 6 Digit 60 seconds expiration PassCode is: "))
	return strings.TrimPrefix(msg.Message, "Your 6 Digit 60 seconds expiration PassCode is: ")
}

// TestAuthServiceSuite runs the auth service test suite
func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
