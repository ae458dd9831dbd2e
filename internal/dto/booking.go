package dto

import "github.com/Mastel22/boondocks-bn-backend/internal/models"

// CreateLocationRequest registers a city
type CreateLocationRequest struct {
	City    string `json:"city" binding:"required,trimmed"`
	Country string `json:"country" binding:"required,trimmed"`
}

// CreateHotelRequest registers a hotel owned by the caller
type CreateHotelRequest struct {
	LocationID  uint   `json:"locationId" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required,trimmed"`
	Image       string `json:"image,omitempty" binding:"omitempty,url"`
	Description string `json:"description,omitempty"`
	Services    string `json:"services,omitempty"`
}

// ListHotelsQuery filters the hotel list
type ListHotelsQuery struct {
	LocationID *uint `form:"locationId" binding:"omitempty,gt=0"`
}

// CreateRoomRequest adds a room to a hotel
type CreateRoomRequest struct {
	Name        string  `json:"name" binding:"required,trimmed"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty" binding:"omitempty,url"`
	Cost        float64 `json:"cost" binding:"min=0"`
}

// BookingRequest books rooms of one hotel for a date range
type BookingRequest struct {
	HotelID     uint   `json:"hotelId" binding:"required,gt=0"`
	Rooms       []uint `json:"rooms" binding:"required,min=1,dive,gt=0"`
	ArrivalDate string `json:"arrivalDate" binding:"required,isodate"`
	LeavingDate string `json:"leavingDate" binding:"required,isodate"`
}

// BookingResponse is returned after a booking is created
type BookingResponse struct {
	HotelID     uint              `json:"hotelId"`
	ArrivalDate string            `json:"arrivalDate"`
	LeavingDate string            `json:"leavingDate"`
	Bookings    []*models.Booking `json:"bookings"`
}

// TripRequest creates a travel request
type TripRequest struct {
	LeavingFrom string `json:"leavingFrom" binding:"required,trimmed"`
	GoingTo     string `json:"goingTo" binding:"required,trimmed"`
	TravelDate  string `json:"travelDate" binding:"required,isodate"`
	ReturnDate  string `json:"returnDate,omitempty" binding:"omitempty,isodate"`
	Reason      string `json:"reason" binding:"required"`
	HotelID     uint   `json:"hotelId" binding:"required,gt=0"`
	Type        string `json:"type" binding:"required,oneof=one_way return"`
	Rooms       []uint `json:"rooms,omitempty" binding:"omitempty,dive,gt=0"`
}

// TripStatusRequest approves or rejects a trip
type TripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}
