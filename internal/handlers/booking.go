package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// CreateBooking books rooms of a hotel for a date range
//
//	@Summary		Book accommodation
//	@Description	Books one or more rooms of a hotel. Dates are calendar days (YYYY-MM-DD) and both ends are included in the stay.
//	@Tags			Booking
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.BookingRequest	true	"Booking"
//	@Success		201		{object}	util.SuccessResponse{data=dto.BookingResponse}
//	@Failure		400		{object}	util.ErrorResponse
//	@Failure		404		{object}	util.ErrorResponse
//	@Failure		409		{object}	util.ErrorResponse
//	@Router			/booking [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.BookingRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.booking.Book(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err, "book accommodation")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "Accommodation booked successfully", resp)
}

// ListBookings returns the bookings visible to the caller
//
//	@Summary		List bookings
//	@Description	Administrators see every booking, suppliers the bookings of their hotels, everyone else their own
//	@Tags			Booking
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	util.SuccessResponse{data=[]models.Booking}
//	@Router			/booking [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	bookings, err := h.booking.ListBookings(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}
