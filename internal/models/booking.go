package models

import "time"

// Booking reserves one room of a hotel for a date range.
// Dates are stored at UTC midnight.
type Booking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	HotelID     uint      `gorm:"not null;index" json:"hotelId"`
	RoomID      uint      `gorm:"not null;index" json:"roomId"`
	ArrivalDate time.Time `gorm:"not null" json:"arrivalDate"`
	LeavingDate time.Time `gorm:"not null" json:"leavingDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

