package repository

import (
	"context"
	"errors"

	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"gorm.io/gorm"
)

// LocationRepository handles database operations for locations
type LocationRepository interface {
	CreateLocation(ctx context.Context, location *models.Location) error
	GetLocation(ctx context.Context, id uint) (*models.Location, error)
	ListLocations(ctx context.Context) ([]*models.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	if location == nil {
		return ErrInvalidInput
	}
	err := r.db.WithContext(ctx).Create(location).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *locationRepository) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) ListLocations(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.WithContext(ctx).Order("country ASC, city ASC").Find(&locations).Error
	return locations, err
}

// HotelRepository handles database operations for hotels and their rooms
type HotelRepository interface {
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	GetHotel(ctx context.Context, id uint) (*models.Hotel, error)
	ListHotels(ctx context.Context, locationID *uint) ([]*models.Hotel, error)
	UpdateHotelImage(ctx context.Context, id uint, image string) error

	CreateRoom(ctx context.Context, room *models.Room) error
	ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error)
	// GetHotelRooms returns the rooms among roomIDs that belong to hotelID
	GetHotelRooms(ctx context.Context, hotelID uint, roomIDs []uint) ([]*models.Room, error)
}

type hotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	if hotel == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Omit("Location", "Rooms").Create(hotel).Error
}

// GetHotel loads a hotel with its location and rooms
func (r *hotelRepository) GetHotel(ctx context.Context, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&hotel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *hotelRepository) ListHotels(ctx context.Context, locationID *uint) ([]*models.Hotel, error) {
	var hotels []*models.Hotel
	q := r.db.WithContext(ctx).Preload("Location").Order("id ASC")
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	err := q.Find(&hotels).Error
	return hotels, err
}

func (r *hotelRepository) UpdateHotelImage(ctx context.Context, id uint, image string) error {
	result := r.db.WithContext(ctx).Model(&models.Hotel{}).Where("id = ?", id).Update("image", image)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *hotelRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	if room == nil || room.HotelID == 0 {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *hotelRepository) ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *hotelRepository) GetHotelRooms(ctx context.Context, hotelID uint, roomIDs []uint) ([]*models.Room, error) {
	var rooms []*models.Room
	if len(roomIDs) == 0 {
		return rooms, nil
	}
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND id IN ?", hotelID, roomIDs).
		Find(&rooms).Error
	return rooms, err
}
