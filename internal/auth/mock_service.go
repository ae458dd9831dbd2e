package auth

import (
	"context"
	"sync"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockAuthService is a mock implementation of AuthServiceInterface for testing.
// Unset funcs return DefaultError (or zero values).
type MockAuthService struct {
	mu sync.Mutex

	Calls []MockCall

	AuthenticateFunc        func(ctx context.Context, token string) (*models.User, error)
	SignupFunc              func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	SigninFunc              func(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, error)
	CompleteTwoFASigninFunc func(ctx context.Context, twoFAToken, code string) (*dto.SigninResponse, error)
	VerifyAccountFunc       func(ctx context.Context, token string) error
	ResendVerificationFunc  func(ctx context.Context, email string) error
	ForgotPasswordFunc      func(ctx context.Context, email string) error
	ResetPasswordFunc       func(ctx context.Context, token, newPassword string) error
	GoogleAuthURLFunc       func(state string) (string, error)
	GoogleCallbackFunc      func(ctx context.Context, code string) (*dto.SigninResponse, error)
	SetRoleFunc             func(ctx context.Context, email string, role models.Role) (*models.User, error)
	UpdateProfileFunc       func(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*models.User, error)

	DefaultError error

	// Users maps access tokens to users for Authenticate
	Users map[string]*models.User
}

// NewMockAuthService creates a new mock auth service
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Calls: make([]MockCall, 0),
		Users: make(map[string]*models.User),
	}
}

var _ AuthServiceInterface = (*MockAuthService)(nil)

func (m *MockAuthService) recordCall(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

// GetCallsForMethod returns calls for a specific method
func (m *MockAuthService) GetCallsForMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []MockCall
	for _, call := range m.Calls {
		if call.Method == method {
			result = append(result, call)
		}
	}
	return result
}

// AssertCalled checks if a method was called at least once
func (m *MockAuthService) AssertCalled(method string) bool {
	return len(m.GetCallsForMethod(method)) > 0
}

// AddUser makes token authenticate as user
func (m *MockAuthService) AddUser(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[token] = user
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	m.recordCall("Authenticate", token)
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	m.mu.Lock()
	user, ok := m.Users[token]
	m.mu.Unlock()
	if !ok {
		return nil, ErrInvalidAccessToken
	}
	return user, nil
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	m.recordCall("Signup", req)
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return nil, m.DefaultError
}

func (m *MockAuthService) Signin(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, error) {
	m.recordCall("Signin", req)
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, req)
	}
	return nil, m.DefaultError
}

func (m *MockAuthService) CompleteTwoFASignin(ctx context.Context, twoFAToken, code string) (*dto.SigninResponse, error) {
	m.recordCall("CompleteTwoFASignin", twoFAToken, code)
	if m.CompleteTwoFASigninFunc != nil {
		return m.CompleteTwoFASigninFunc(ctx, twoFAToken, code)
	}
	return nil, m.DefaultError
}

func (m *MockAuthService) VerifyAccount(ctx context.Context, token string) error {
	m.recordCall("VerifyAccount", token)
	if m.VerifyAccountFunc != nil {
		return m.VerifyAccountFunc(ctx, token)
	}
	return m.DefaultError
}

func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	m.recordCall("ResendVerification", email)
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, email)
	}
	return m.DefaultError
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	m.recordCall("ForgotPassword", email)
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return m.DefaultError
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	m.recordCall("ResetPassword", token)
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return m.DefaultError
}

func (m *MockAuthService) GoogleAuthURL(state string) (string, error) {
	m.recordCall("GoogleAuthURL", state)
	if m.GoogleAuthURLFunc != nil {
		return m.GoogleAuthURLFunc(state)
	}
	return "", ErrOAuthNotConfigured
}

func (m *MockAuthService) GoogleCallback(ctx context.Context, code string) (*dto.SigninResponse, error) {
	m.recordCall("GoogleCallback", code)
	if m.GoogleCallbackFunc != nil {
		return m.GoogleCallbackFunc(ctx, code)
	}
	return nil, ErrOAuthNotConfigured
}

func (m *MockAuthService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	m.recordCall("SetRole", email, role)
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, email, role)
	}
	return nil, m.DefaultError
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*models.User, error) {
	m.recordCall("UpdateProfile", req)
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, user, req)
	}
	return user, m.DefaultError
}
