package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"gorm.io/gorm"
)

// TripRepository handles database operations for trips
type TripRepository interface {
	// CreateTrip stores the trip and reserves roomIDs, failing with
	// ErrRoomsReserved when any room is no longer available
	CreateTrip(ctx context.Context, trip *models.Trip, roomIDs []uint) error
	GetTrip(ctx context.Context, id uint) (*models.Trip, error)
	ListTrips(ctx context.Context) ([]*models.Trip, error)
	ListTripsByUser(ctx context.Context, userID uint) ([]*models.Trip, error)
	UpdateTripStatus(ctx context.Context, id uint, status models.TripStatus) error
	// ReleaseRooms makes reserved rooms available again once no trip still holds them:
	// every trip linking a room is rejected or ended before cutoff
	ReleaseRooms(ctx context.Context, cutoff time.Time) (int64, error)
}

type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *models.Trip, roomIDs []uint) error {
	if trip == nil {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(roomIDs) > 0 {
			// Conditional update claims the rooms; a short count means another request got there first
			result := tx.Model(&models.Room{}).
				Where("id IN ? AND status = ?", roomIDs, models.RoomAvailable).
				Update("status", models.RoomReserved)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != int64(len(roomIDs)) {
				return ErrRoomsReserved
			}
		}

		trip.Rooms = nil
		if err := tx.Create(trip).Error; err != nil {
			return err
		}

		for _, roomID := range roomIDs {
			trip.Rooms = append(trip.Rooms, models.TripRoom{TripID: trip.ID, RoomID: roomID})
		}
		if len(trip.Rooms) > 0 {
			return tx.Create(&trip.Rooms).Error
		}
		return nil
	})
}

func (r *tripRepository) GetTrip(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).Preload("Rooms").First(&trip, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	var trips []*models.Trip
	err := r.db.WithContext(ctx).Preload("Rooms").Order("id ASC").Find(&trips).Error
	return trips, err
}

func (r *tripRepository) ListTripsByUser(ctx context.Context, userID uint) ([]*models.Trip, error) {
	var trips []*models.Trip
	err := r.db.WithContext(ctx).Preload("Rooms").Where("user_id = ?", userID).Order("id ASC").Find(&trips).Error
	return trips, err
}

func (r *tripRepository) UpdateTripStatus(ctx context.Context, id uint, status models.TripStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Trip{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tripRepository) ReleaseRooms(ctx context.Context, cutoff time.Time) (int64, error) {
	held := r.db.Model(&models.TripRoom{}).
		Select("trip_rooms.room_id").
		Joins("JOIN trips ON trips.id = trip_rooms.trip_id").
		Where("trips.status <> ?", models.TripRejected).
		Where("COALESCE(trips.return_date, trips.travel_date) >= ?", cutoff)

	result := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("status = ?", models.RoomReserved).
		Where("id NOT IN (?)", held).
		Update("status", models.RoomAvailable)
	return result.RowsAffected, result.Error
}
