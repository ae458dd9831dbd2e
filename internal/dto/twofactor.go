package dto

// TwoFASetupRequest starts 2FA enrollment. A trailing "_temp" on the type is accepted.
type TwoFASetupRequest struct {
	TwoFAType   string `json:"twoFAType" binding:"required,oneof=authenticator_app sms_text authenticator_app_temp sms_text_temp"`
	PhoneNumber string `json:"phoneNumber,omitempty" binding:"omitempty,e164"`
}

// TwoFAVerifyRequest checks a one-time code against the user's secret
type TwoFAVerifyRequest struct {
	Token string `json:"token" binding:"required,numeric,len=6"`
}

// TwoFASigninRequest completes a signin that required a second factor
type TwoFASigninRequest struct {
	TwoFAToken string `json:"twoFAToken" binding:"required"`
	Token      string `json:"token" binding:"required,numeric,len=6"`
}

// TwoFAResponse describes a user's 2FA configuration
type TwoFAResponse struct {
	TwoFAType    string `json:"twoFAType"`
	TwoFASecret  string `json:"twoFASecret,omitempty"`
	TwoFADataURL string `json:"twoFADataURL,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	IsTokenValid *bool  `json:"isTokenValid,omitempty"`
}
