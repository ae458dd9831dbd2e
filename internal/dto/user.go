package dto

import (
	"time"

	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// SignupRequest for native registration
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required,trimmed"`
	LastName  string `json:"lastName" binding:"required,trimmed"`
	Email     string `json:"email" binding:"required,trimmed,email"`
	Password  string `json:"password" binding:"required,alphanum,min=8"`
}

// SigninRequest for email/password login
type SigninRequest struct {
	Email    string `json:"email" binding:"required,trimmed,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest carries only an email, for password reset and resend requests
type EmailRequest struct {
	Email string `json:"email" form:"email" binding:"required,trimmed,email"`
}

// ResetPasswordRequest sets a new password with a reset token
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,alphanum,min=8"`
}

// UpdateProfileRequest for profile updates
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty" binding:"omitempty,min=1,trimmed"`
	LastName    *string `json:"lastName,omitempty" binding:"omitempty,min=1,trimmed"`
	PhoneNumber *string `json:"phoneNumber,omitempty" binding:"omitempty,e164"`
}

// SetRoleRequest assigns a role to the user with the given email
type SetRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=requester travel_administrator suppliers super_administrator"`
}

// UserResponse is the public user representation
type UserResponse struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"isVerified"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	TwoFAType   string    `json:"twoFAType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUserResponse converts models.User to UserResponse (excludes secrets)
func ToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Role:        string(user.Role),
		IsVerified:  user.IsVerified,
		PhoneNumber: user.PhoneNumber,
		TwoFAType:   string(user.TwoFAType),
		CreatedAt:   user.CreatedAt,
	}
}

// SignupResponse is returned after registration
type SignupResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// SigninResponse is returned after a successful signin. When a second factor is
// required only the TwoFA fields are set.
type SigninResponse struct {
	ID         uint   `json:"id,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	IsVerified bool   `json:"isVerified"`
	Token      string `json:"token,omitempty"`

	TwoFARequired bool   `json:"twoFARequired,omitempty"`
	TwoFAType     string `json:"twoFAType,omitempty"`
	TwoFAToken    string `json:"twoFAToken,omitempty"`
}
