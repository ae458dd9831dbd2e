package auth

import (
	"context"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// Authenticator resolves access tokens; it is all the auth middleware needs
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthServiceInterface defines the contract for authentication operations.
// This enables mocking for handler tests without requiring a real database.
type AuthServiceInterface interface {
	Authenticator

	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	Signin(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, error)
	CompleteTwoFASignin(ctx context.Context, twoFAToken, code string) (*dto.SigninResponse, error)

	VerifyAccount(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*dto.SigninResponse, error)

	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*models.User, error)
}

// Ensure Service implements AuthServiceInterface
var _ AuthServiceInterface = (*Service)(nil)
