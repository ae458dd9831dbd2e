package models

import "time"

// RoomStatus is a room's reservation state
type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomReserved  RoomStatus = "reserved"
)

// Location is a city hotels can be registered in
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	City      string    `gorm:"not null" json:"city"`
	Country   string    `gorm:"not null" json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hotel is an accommodation owned by a supplier or administrator
type Hotel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	LocationID  uint   `gorm:"not null;index" json:"locationId"`
	UserID      uint   `gorm:"not null;index" json:"userId"`
	Name        string `gorm:"not null" json:"name"`
	Image       string `json:"image"`
	Description string `gorm:"type:text" json:"description"`
	Services    string `gorm:"type:text" json:"services"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Rooms    []Room    `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Room belongs to exactly one hotel
type Room struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	HotelID     uint       `gorm:"not null;index" json:"hotelId"`
	Name        string     `gorm:"not null" json:"name"`
	Type        string     `json:"type"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `json:"image"`
	Cost        float64    `json:"cost"`
	Status      RoomStatus `gorm:"type:varchar(16);default:available;not null" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
