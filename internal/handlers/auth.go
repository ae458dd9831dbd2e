package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

const oauthStateCookie = "oauth_state"

// Signup registers a new user and emails a verification link
//
//	@Summary		User signup
//	@Description	Creates a new requester account and sends a verification email
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SignupRequest	true	"New account"
//	@Success		201		{object}	util.SuccessResponse{data=dto.SignupResponse}
//	@Failure		400		{object}	util.ErrorResponse
//	@Failure		409		{object}	util.ErrorResponse
//	@Router			/auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create user")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "User created successfully, please check your email to verify your account", resp)
}

// Signin authenticates with email and password
//
//	@Summary		User signin
//	@Description	Returns an access token, or a 2FA token when a second factor is required
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SigninRequest	true	"Credentials"
//	@Success		200		{object}	util.SuccessResponse{data=dto.SigninResponse}
//	@Failure		400		{object}	util.ErrorResponse
//	@Failure		401		{object}	util.ErrorResponse
//	@Router			/auth/signin [post]
func (h *Handlers) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.auth.Signin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "sign in")
		return
	}
	if resp.TwoFARequired {
		util.RespondSuccess(c, http.StatusOK, "Please provide your 2FA token to complete signin", resp)
		return
	}
	util.RespondSuccess(c, http.StatusOK, "User logged in successfully", resp)
}

// VerifyAccount confirms the email address carried by the token
//
//	@Summary		User email verification
//	@Tags			Users
//	@Produce		json
//	@Param			token	query		string	true	"Verification token"
//	@Success		200		{object}	util.SuccessResponse
//	@Failure		401		{object}	util.ErrorResponse
//	@Failure		404		{object}	util.ErrorResponse
//	@Failure		409		{object}	util.ErrorResponse
//	@Router			/auth/verification [get]
func (h *Handlers) VerifyAccount(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		util.RespondWithAPIError(c, apierrors.InvalidToken(MsgInvalidVerifyToken))
		return
	}

	if err := h.auth.VerifyAccount(c.Request.Context(), token); err != nil {
		respondError(c, err, "verify account")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Email has been verified successfully, please proceed to log in", nil)
}

// ResendVerification emails a fresh verification link
//
//	@Summary		Resend verification email
//	@Tags			Users
//	@Produce		json
//	@Param			email	query		string	true	"Account email"
//	@Success		200		{object}	util.SuccessResponse
//	@Failure		404		{object}	util.ErrorResponse
//	@Failure		409		{object}	util.ErrorResponse
//	@Router			/auth/reverifyUser [get]
func (h *Handlers) ResendVerification(c *gin.Context) {
	var req dto.EmailRequest
	if !bindQuery(c, &req) {
		return
	}

	if err := h.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "resend verification email")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Email has been resent successfully, please check your mail", nil)
}

// ForgotPassword emails a password reset link
//
//	@Summary		Request a password reset link
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.EmailRequest	true	"Account email"
//	@Success		200		{object}	util.SuccessResponse
//	@Failure		404		{object}	util.ErrorResponse
//	@Router			/auth/forgotPassword [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !bind(c, &req) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "send password reset link")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Password reset link has been sent to your email", nil)
}

// ResetPassword sets a new password using the emailed token
//
//	@Summary		Reset password
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			token	query		string						true	"Reset token"
//	@Param			body	body		dto.ResetPasswordRequest	true	"New password"
//	@Success		200		{object}	util.SuccessResponse
//	@Failure		400		{object}	util.ErrorResponse
//	@Failure		401		{object}	util.ErrorResponse
//	@Router			/auth/resetPassword [patch]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bind(c, &req) {
		return
	}
	token := c.Query("token")
	if token == "" {
		util.RespondWithAPIError(c, apierrors.InvalidToken(MsgInvalidResetToken))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		respondError(c, err, "reset password")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Password has been reset successfully, please log in", nil)
}

// GoogleLogin redirects to the Google consent page
//
//	@Summary	Google sign-in
//	@Tags		Users
//	@Success	307
//	@Failure	503	{object}	util.ErrorResponse
//	@Router		/auth/google [get]
func (h *Handlers) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	authURL, err := h.auth.GoogleAuthURL(state)
	if err != nil {
		respondError(c, err, "start Google sign-in")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes Google sign-in
//
//	@Summary	Google sign-in callback
//	@Tags		Users
//	@Produce	json
//	@Param		state	query		string	true	"OAuth state"
//	@Param		code	query		string	true	"Authorization code"
//	@Success	200		{object}	util.SuccessResponse{data=dto.SigninResponse}
//	@Failure	400		{object}	util.ErrorResponse
//	@Router		/auth/google/callback [get]
func (h *Handlers) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		util.RespondBadRequest(c, "Invalid OAuth state, please try signing in again")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		util.RespondBadRequest(c, "Missing authorization code")
		return
	}

	resp, err := h.auth.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "complete Google sign-in")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "User logged in successfully", resp)
}
