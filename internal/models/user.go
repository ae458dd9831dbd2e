package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is a user's permission level
type Role string

const (
	RoleRequester           Role = "requester"
	RoleTravelAdministrator Role = "travel_administrator"
	RoleSupplier            Role = "suppliers"
	RoleSuperAdministrator  Role = "super_administrator"
)

// Roles lists every assignable role
var Roles = []Role{RoleRequester, RoleTravelAdministrator, RoleSupplier, RoleSuperAdministrator}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role can see every booking and trip
func (r Role) IsAdmin() bool {
	return r == RoleTravelAdministrator || r == RoleSuperAdministrator
}

// TwoFAType is the second factor a user has configured.
// A "_temp" suffix marks a secret that was created but not yet confirmed with a code.
type TwoFAType string

const (
	TwoFANone                TwoFAType = "none"
	TwoFAAuthenticatorApp    TwoFAType = "authenticator_app"
	TwoFASMSText             TwoFAType = "sms_text"
	TwoFAAuthenticatorAppTmp TwoFAType = "authenticator_app_temp"
	TwoFASMSTextTmp          TwoFAType = "sms_text_temp"
)

const twoFATempSuffix = "_temp"

// IsTemp reports whether the type is awaiting confirmation
func (t TwoFAType) IsTemp() bool {
	return strings.HasSuffix(string(t), twoFATempSuffix)
}

// Base strips the pending suffix
func (t TwoFAType) Base() TwoFAType {
	return TwoFAType(strings.TrimSuffix(string(t), twoFATempSuffix))
}

// Temp returns the pending variant of the type
func (t TwoFAType) Temp() TwoFAType {
	return t.Base() + twoFATempSuffix
}

// Active reports whether signin must ask for a second factor
func (t TwoFAType) Active() bool {
	return t == TwoFAAuthenticatorApp || t == TwoFASMSText
}

// IsSMS reports whether codes are delivered by text message
func (t TwoFAType) IsSMS() bool {
	return t.Base() == TwoFASMSText
}

// User is a Barefoot Nomad account
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`

	// Nil for accounts created through Google sign-in
	PasswordHash *string `gorm:"type:text" json:"-"`
	IsVerified   bool    `gorm:"default:false" json:"isVerified"`
	Role         Role    `gorm:"type:varchar(32);default:requester;not null" json:"role"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`

	TwoFAType    TwoFAType `gorm:"column:two_fa_type;type:varchar(32);default:none;not null" json:"twoFAType"`
	TwoFASecret  string    `gorm:"column:two_fa_secret;type:text" json:"-"`
	TwoFADataURL string    `gorm:"column:two_fa_data_url;type:text" json:"-"`

	GoogleID *string `gorm:"uniqueIndex" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeSave normalizes the email so lookups are case-insensitive
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleRequester
	}
	if u.TwoFAType == "" {
		u.TwoFAType = TwoFANone
	}
	return nil
}

// HasPassword reports whether the user can sign in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
