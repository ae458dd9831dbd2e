package repository

import (
	"context"
	"slices"
	"time"

	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository handles database operations for bookings
type BookingRepository interface {
	// CreateBookings inserts all bookings in one transaction, failing with
	// ErrRoomsBooked when any room already has an overlapping booking
	CreateBookings(ctx context.Context, bookings []*models.Booking) error
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID uint) ([]*models.Booking, error)
	ListBookingsByHotelOwner(ctx context.Context, ownerID uint) ([]*models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateBookings(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent bookings of a room queue on its row lock before counting
		if err := lockRooms(tx, bookings); err != nil {
			return err
		}
		for _, b := range bookings {
			overlapping, err := countOverlapping(tx, b.RoomID, b.ArrivalDate, b.LeavingDate)
			if err != nil {
				return err
			}
			if overlapping > 0 {
				return ErrRoomsBooked
			}
		}
		return tx.Create(&bookings).Error
	})
}

// lockRooms takes row locks on the booked rooms in id order. SQLite ignores the
// locking clause and serializes writers instead.
func lockRooms(tx *gorm.DB, bookings []*models.Booking) error {
	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.RoomID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var rooms []models.Room
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id").
		Find(&rooms).Error
}

// countOverlapping counts bookings of a room intersecting the inclusive range [from, to]
func countOverlapping(tx *gorm.DB, roomID uint, from, to time.Time) (int64, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND arrival_date <= ? AND leaving_date >= ?", roomID, to, from).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Order("id ASC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListBookingsByUser(ctx context.Context, userID uint) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListBookingsByHotelOwner(ctx context.Context, ownerID uint) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN hotels ON hotels.id = bookings.hotel_id").
		Where("hotels.user_id = ?", ownerID).
		Order("bookings.id ASC").
		Find(&bookings).Error
	return bookings, err
}
