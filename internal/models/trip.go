package models

import "time"

// TripType distinguishes single-leg from round trips
type TripType string

const (
	TripOneWay TripType = "one_way"
	TripReturn TripType = "return"
)

// TripStatus is the approval state of a travel request
type TripStatus string

const (
	TripPending  TripStatus = "pending"
	TripApproved TripStatus = "approved"
	TripRejected TripStatus = "rejected"
)

// Valid reports whether s is a known status
func (s TripStatus) Valid() bool {
	return s == TripPending || s == TripApproved || s == TripRejected
}

// Trip is a travel request that reserves rooms in a hotel
type Trip struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	LeavingFrom string     `gorm:"not null" json:"leavingFrom"`
	GoingTo     string     `gorm:"not null" json:"goingTo"`
	TravelDate  time.Time  `gorm:"not null" json:"travelDate"`
	ReturnDate  *time.Time `json:"returnDate,omitempty"`
	Reason      string     `gorm:"type:text" json:"reason"`
	HotelID     uint       `gorm:"not null;index" json:"hotelId"`
	Type        TripType   `gorm:"type:varchar(16);not null" json:"type"`
	Status      TripStatus `gorm:"type:varchar(16);default:pending;not null" json:"status"`

	Rooms []TripRoom `gorm:"foreignKey:TripID" json:"rooms,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TripRoom links a trip to a room it reserved
type TripRoom struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TripID uint `gorm:"not null;index" json:"tripId"`
	RoomID uint `gorm:"not null;index" json:"roomId"`
}
