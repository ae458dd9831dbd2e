package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// Purpose limits what a token can be used for
type Purpose string

const (
	PurposeAccess Purpose = "access"
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
	PurposeTwoFA  Purpose = "2fa"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded content of a token
type Claims struct {
	UserID      uint
	Email       string
	Role        models.Role
	IsVerified  bool
	Purpose     Purpose
	Fingerprint string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// TokenManager signs and parses HS256 tokens
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a token manager for secret
func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{secret: secret, now: time.Now}
}

// Sign issues a token for user valid for ttl
func (m *TokenManager) Sign(user *models.User, purpose Purpose, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"id":         user.ID,
		"email":      user.Email,
		"role":       string(user.Role),
		"isVerified": user.IsVerified,
		"purpose":    string(purpose),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	if purpose == PurposeReset {
		// Binds the token to the current password so it stops working once used
		claims["pwd"] = m.Fingerprint(user)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and decodes the claims
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	id, ok := mc["id"].(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidToken)
	}

	claims := &Claims{UserID: uint(id)}
	claims.Email, _ = mc["email"].(string)
	role, _ := mc["role"].(string)
	claims.Role = models.Role(role)
	claims.IsVerified, _ = mc["isVerified"].(bool)
	purpose, _ := mc["purpose"].(string)
	claims.Purpose = Purpose(purpose)
	claims.Fingerprint, _ = mc["pwd"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Fingerprint derives a short digest of the user's password hash
func (m *TokenManager) Fingerprint(user *models.User) string {
	mac := hmac.New(sha256.New, m.secret)
	if user.PasswordHash != nil {
		mac.Write([]byte(*user.PasswordHash))
	}
	mac.Write([]byte(fmt.Sprintf(":%d", user.ID)))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}
