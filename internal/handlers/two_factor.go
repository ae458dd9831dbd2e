package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// SetupTwoFA creates a pending TOTP secret for the authenticated user.
// SMS setup texts the first passcode to the user's phone.
//
//	@Summary		Set up 2FA
//	@Tags			2FA
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.TwoFASetupRequest	true	"2FA type and optional phone"
//	@Success		200		{object}	util.SuccessResponse{data=dto.TwoFAResponse}
//	@Success		206		{object}	util.ErrorResponse
//	@Failure		400		{object}	util.ErrorResponse
//	@Router			/auth/2fa [post]
func (h *Handlers) SetupTwoFA(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.TwoFASetupRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.twoFA.SetupSecret(c.Request.Context(), user, models.TwoFAType(req.TwoFAType), req.PhoneNumber)
	if err != nil {
		respondError(c, err, "create TOTP secret")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "TOTP Secret created", resp)
}

// GetTwoFA returns the authenticated user's 2FA configuration
//
//	@Summary	Get 2FA configuration
//	@Tags		2FA
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	util.SuccessResponse{data=dto.TwoFAResponse}
//	@Router		/auth/2fa [get]
func (h *Handlers) GetTwoFA(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	util.RespondSuccess(c, http.StatusOK, "TOTP Secret retrieved", h.twoFA.Get(user))
}

// RemoveTwoFA disables 2FA for the authenticated user
//
//	@Summary	Disable 2FA
//	@Tags		2FA
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	util.SuccessResponse{data=dto.TwoFAResponse}
//	@Router		/auth/2fa [delete]
func (h *Handlers) RemoveTwoFA(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	resp, err := h.twoFA.Remove(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "remove TOTP secret")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "TOTP Secret removed", resp)
}

// VerifyTwoFA checks a code against the user's secret, activating a pending setup
//
//	@Summary	Verify a 2FA code
//	@Tags		2FA
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.TwoFAVerifyRequest	true	"Code"
//	@Success	200		{object}	util.SuccessResponse{data=dto.TwoFAResponse}
//	@Failure	400		{object}	util.ErrorResponse{data=dto.TwoFAResponse}
//	@Router		/auth/2fa/verify [post]
func (h *Handlers) VerifyTwoFA(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.TwoFAVerifyRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.twoFA.VerifyUser(c.Request.Context(), user, req.Token)
	if errors.Is(err, twofactor.ErrInvalidCode) {
		util.RespondWithAPIErrorData(c, serviceError(err), resp)
		return
	} else if err != nil {
		respondError(c, err, "verify TOTP token")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Valid TOTP token", resp)
}

// SendTwoFACode texts a fresh passcode to the user's stored phone number
//
//	@Summary	Send an SMS passcode
//	@Tags		2FA
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	util.SuccessResponse
//	@Failure	400	{object}	util.ErrorResponse
//	@Failure	503	{object}	util.ErrorResponse
//	@Router		/auth/2fa/sms [post]
func (h *Handlers) SendTwoFACode(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if err := h.twoFA.SendCode(c.Request.Context(), user); err != nil {
		respondError(c, err, "send TOTP token")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "TOTP token sent", nil)
}

// TwoFASignin completes a signin that required a second factor
//
//	@Summary	Complete 2FA signin
//	@Tags		2FA
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.TwoFASigninRequest	true	"Pending 2FA token and code"
//	@Success	200		{object}	util.SuccessResponse{data=dto.SigninResponse}
//	@Failure	401		{object}	util.ErrorResponse
//	@Router		/auth/2fa/signin [post]
func (h *Handlers) TwoFASignin(c *gin.Context) {
	var req dto.TwoFASigninRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.auth.CompleteTwoFASignin(c.Request.Context(), req.TwoFAToken, req.Token)
	if errors.Is(err, twofactor.ErrInvalidCode) {
		util.RespondUnauthorized(c, MsgInvalidTOTP)
		return
	} else if err != nil {
		respondError(c, err, "complete signin")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "User logged in successfully", resp)
}
