package repository

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned when a unique index rejects an insert
	ErrDuplicate = errors.New("record already exists")

	// ErrRoomsBooked is returned when a room already has a booking overlapping the requested dates
	ErrRoomsBooked = errors.New("rooms already booked for the selected dates")
	// ErrRoomsReserved is returned when a trip asks for a room that is not available
	ErrRoomsReserved = errors.New("rooms already reserved")
)
