package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// CreateLocation registers a city
//
//	@Summary	Create location
//	@Tags		Hotels
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateLocationRequest	true	"City and country"
//	@Success	201		{object}	util.SuccessResponse{data=models.Location}
//	@Failure	403		{object}	util.ErrorResponse
//	@Router		/locations [post]
func (h *Handlers) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bind(c, &req) {
		return
	}

	location, err := h.booking.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create location")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "Location created successfully", location)
}

// ListLocations returns every location
//
//	@Summary	List locations
//	@Tags		Hotels
//	@Produce	json
//	@Success	200	{object}	util.SuccessResponse{data=[]models.Location}
//	@Router		/locations [get]
func (h *Handlers) ListLocations(c *gin.Context) {
	locations, err := h.booking.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err, "list locations")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Locations retrieved successfully", locations)
}

// CreateHotel registers a hotel owned by the caller
//
//	@Summary	Create hotel
//	@Tags		Hotels
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateHotelRequest	true	"Hotel"
//	@Success	201		{object}	util.SuccessResponse{data=models.Hotel}
//	@Failure	403		{object}	util.ErrorResponse
//	@Failure	404		{object}	util.ErrorResponse
//	@Router		/hotels [post]
func (h *Handlers) CreateHotel(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateHotelRequest
	if !bind(c, &req) {
		return
	}

	hotel, err := h.booking.CreateHotel(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err, "create hotel")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "Hotel created successfully", hotel)
}

// ListHotels returns hotels, optionally in one location
//
//	@Summary	List hotels
//	@Tags		Hotels
//	@Produce	json
//	@Param		locationId	query		int	false	"Location filter"
//	@Success	200			{object}	util.SuccessResponse{data=[]models.Hotel}
//	@Router		/hotels [get]
func (h *Handlers) ListHotels(c *gin.Context) {
	var query dto.ListHotelsQuery
	if !bindQuery(c, &query) {
		return
	}

	hotels, err := h.booking.ListHotels(c.Request.Context(), query.LocationID)
	if err != nil {
		respondError(c, err, "list hotels")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Hotels retrieved successfully", hotels)
}

// GetHotel returns a hotel with its rooms
//
//	@Summary	Get hotel
//	@Tags		Hotels
//	@Produce	json
//	@Param		id	path		int	true	"Hotel ID"
//	@Success	200	{object}	util.SuccessResponse{data=models.Hotel}
//	@Failure	404	{object}	util.ErrorResponse
//	@Router		/hotels/{id} [get]
func (h *Handlers) GetHotel(c *gin.Context) {
	id, ok := util.ParseIDParam(c, "id")
	if !ok {
		return
	}

	hotel, err := h.booking.GetHotel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get hotel")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Hotel retrieved successfully", hotel)
}

// UploadHotelImage stores an image for the hotel
//
//	@Summary	Upload hotel image
//	@Tags		Hotels
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int		true	"Hotel ID"
//	@Param		image	formData	file	true	"jpg, jpeg, png, gif or webp, at most 5MB"
//	@Success	200		{object}	util.SuccessResponse{data=models.Hotel}
//	@Failure	400		{object}	util.ErrorResponse
//	@Failure	403		{object}	util.ErrorResponse
//	@Router		/hotels/{id}/image [post]
func (h *Handlers) UploadHotelImage(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	id, ok := util.ParseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		util.RespondBadRequest(c, "\"image\" file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.RespondBadRequest(c, "Failed to read uploaded image")
		return
	}
	defer file.Close()

	hotel, err := h.booking.SetHotelImage(c.Request.Context(), user, id, file, header)
	if err != nil {
		respondError(c, err, "upload hotel image")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Hotel image uploaded successfully", hotel)
}

// AddRoom adds a room to a hotel owned by the caller
//
//	@Summary	Add room
//	@Tags		Hotels
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"Hotel ID"
//	@Param		body	body		dto.CreateRoomRequest	true	"Room"
//	@Success	201		{object}	util.SuccessResponse{data=models.Room}
//	@Failure	403		{object}	util.ErrorResponse
//	@Failure	404		{object}	util.ErrorResponse
//	@Router		/hotels/{id}/rooms [post]
func (h *Handlers) AddRoom(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	id, ok := util.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateRoomRequest
	if !bind(c, &req) {
		return
	}

	room, err := h.booking.AddRoom(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, err, "add room")
		return
	}
	util.RespondSuccess(c, http.StatusCreated, "Room created successfully", room)
}

// ListRooms returns the rooms of a hotel
//
//	@Summary	List rooms
//	@Tags		Hotels
//	@Produce	json
//	@Param		id	path		int	true	"Hotel ID"
//	@Success	200	{object}	util.SuccessResponse{data=[]models.Room}
//	@Failure	404	{object}	util.ErrorResponse
//	@Router		/hotels/{id}/rooms [get]
func (h *Handlers) ListRooms(c *gin.Context) {
	id, ok := util.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rooms, err := h.booking.ListRooms(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "list rooms")
		return
	}
	util.RespondSuccess(c, http.StatusOK, "Rooms retrieved successfully", rooms)
}
