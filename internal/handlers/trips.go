package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// CreateTrip files a travel request
//
//	@Summary	Request a trip
//	@Tags		Trips
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.TripRequest	true	"Trip"
//	@Success	201		{object}	util.SuccessResponse{data=models.Trip}
//	@Failure	400		{object}	util.ErrorResponse
//	@Failure	409		{object}	util.ErrorResponse
//	@Router		/trips [post]
func (h *Handlers) CreateTrip(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.TripRequest
	if !bind(c, &req) {
		return
	}

	trip, err := h.booking.CreateTrip(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err, "create trip")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "Trip request created successfully", trip)
}

// ListTrips returns the caller's trips, or every trip for administrators
//
//	@Summary	List trips
//	@Tags		Trips
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	util.SuccessResponse{data=[]models.Trip}
//	@Router		/trips [get]
func (h *Handlers) ListTrips(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	trips, err := h.booking.ListTrips(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "list trips")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Trips retrieved successfully", trips)
}

// UpdateTripStatus approves or rejects a trip
//
//	@Summary	Update trip status
//	@Tags		Trips
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"Trip ID"
//	@Param		body	body		dto.TripStatusRequest	true	"New status"
//	@Success	200		{object}	util.SuccessResponse{data=models.Trip}
//	@Failure	403		{object}	util.ErrorResponse
//	@Failure	404		{object}	util.ErrorResponse
//	@Router		/trips/{id}/status [patch]
func (h *Handlers) UpdateTripStatus(c *gin.Context) {
	id, ok := util.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.TripStatusRequest
	if !bind(c, &req) {
		return
	}

	trip, err := h.booking.UpdateTripStatus(c.Request.Context(), id, models.TripStatus(req.Status))
	if err != nil {
		respondError(c, err, "update trip status")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Trip status updated successfully", trip)
}
