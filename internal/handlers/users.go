package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// GetMe returns the authenticated user's profile
//
//	@Summary	Current user profile
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	util.SuccessResponse{data=dto.UserResponse}
//	@Failure	401	{object}	util.ErrorResponse
//	@Router		/users/me [get]
func (h *Handlers) GetMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Profile retrieved successfully", dto.ToUserResponse(user))
}

// UpdateMe updates the authenticated user's name or phone number
//
//	@Summary	Update profile
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.UpdateProfileRequest	true	"Fields to change"
//	@Success	200		{object}	util.SuccessResponse{data=dto.UserResponse}
//	@Failure	400		{object}	util.ErrorResponse
//	@Router		/users/me [patch]
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bind(c, &req) {
		return
	}

	updated, err := h.auth.UpdateProfile(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Profile updated successfully", dto.ToUserResponse(updated))
}

// SetRole assigns a role to a user. Super administrators only.
//
//	@Summary	Assign a role
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.SetRoleRequest	true	"User email and role"
//	@Success	200		{object}	util.SuccessResponse{data=dto.UserResponse}
//	@Failure	403		{object}	util.ErrorResponse
//	@Failure	404		{object}	util.ErrorResponse
//	@Router		/users/role [patch]
func (h *Handlers) SetRole(c *gin.Context) {
	var req dto.SetRoleRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.auth.SetRole(c.Request.Context(), req.Email, models.Role(req.Role))
	if err != nil {
		respondError(c, err, "update role")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Role updated successfully", dto.ToUserResponse(user))
}
