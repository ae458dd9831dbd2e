// Package booking manages locations, hotels, rooms, accommodation bookings and trip requests.
package booking

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/storage"
	"github.com/Mastel22/boondocks-bn-backend/internal/telemetry"
	"github.com/Mastel22/boondocks-bn-backend/internal/validation"
)

const hotelCacheName = "hotel"

var (
	ErrArrivalInPast       = errors.New("arrival date in the past")
	ErrLeavingInPast       = errors.New("leaving date in the past")
	ErrLeavingBeforeArrive = errors.New("leaving date before arrival date")
	ErrInvalidDate         = errors.New("invalid date")
	ErrLocationNotFound    = errors.New("location not found")
	ErrLocationExists      = errors.New("location already exists")
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrTripNotFound        = errors.New("trip not found")
	ErrRoomsNotInHotel     = errors.New("rooms not registered in hotel")
	ErrRoomsBooked         = errors.New("rooms already booked")
	ErrRoomsReserved       = errors.New("rooms already reserved")
	ErrNotHotelOwner       = errors.New("not the hotel owner")
	ErrTravelInPast        = errors.New("travel date in the past")
	ErrReturnDateRequired  = errors.New("return date required")
	ErrReturnBeforeTravel  = errors.New("return date before travel date")
	ErrInvalidStatus       = errors.New("invalid trip status")
	ErrUploadsDisabled     = errors.New("image uploads are not configured")
)

// Service implements the accommodation operations
type Service struct {
	locations repository.LocationRepository
	hotels    repository.HotelRepository
	bookings  repository.BookingRepository
	trips     repository.TripRepository
	cache     cache.Store
	cacheTTL  time.Duration
	uploader  storage.ImageUploader
	now       func() time.Time
}

// Options groups the collaborators of a Service. Cache and Uploader may be nil.
type Options struct {
	Locations repository.LocationRepository
	Hotels    repository.HotelRepository
	Bookings  repository.BookingRepository
	Trips     repository.TripRepository
	Cache     cache.Store
	CacheTTL  time.Duration
	Uploader  storage.ImageUploader
}

// NewService creates a booking service
func NewService(opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Service{
		locations: opts.Locations,
		hotels:    opts.Hotels,
		bookings:  opts.Bookings,
		trips:     opts.Trips,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		uploader:  opts.Uploader,
		now:       time.Now,
	}
}

// SetClock replaces the time source, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) today() time.Time {
	return startOfDay(s.now())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(validation.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, value)
	}
	return t, nil
}

// CreateLocation registers a city
func (s *Service) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*models.Location, error) {
	location := &models.Location{City: req.City, Country: req.Country}
	if err := s.locations.CreateLocation(ctx, location); errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrLocationExists
	} else if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

// ListLocations returns every location
func (s *Service) ListLocations(ctx context.Context) ([]*models.Location, error) {
	return s.locations.ListLocations(ctx)
}

// CreateHotel registers a hotel owned by user in an existing location
func (s *Service) CreateHotel(ctx context.Context, user *models.User, req dto.CreateHotelRequest) (*models.Hotel, error) {
	location, err := s.locations.GetLocation(ctx, req.LocationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLocationNotFound
	} else if err != nil {
		return nil, err
	}

	hotel := &models.Hotel{
		LocationID:  location.ID,
		UserID:      user.ID,
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		Services:    req.Services,
	}
	if err := s.hotels.CreateHotel(ctx, hotel); err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}
	hotel.Location = location

	logger.Log.Info("Hotel created", logger.WithHotelID(hotel.ID), logger.WithUserID(user.ID))
	return hotel, nil
}

// ListHotels returns hotels, optionally only those in one location
func (s *Service) ListHotels(ctx context.Context, locationID *uint) ([]*models.Hotel, error) {
	return s.hotels.ListHotels(ctx, locationID)
}

func hotelCacheKey(id uint) string {
	return "hotel:" + strconv.FormatUint(uint64(id), 10)
}

// GetHotel returns a hotel with its location and rooms, served from cache when possible
func (s *Service) GetHotel(ctx context.Context, id uint) (*models.Hotel, error) {
	key := hotelCacheKey(id)
	if s.cache != nil {
		var cached models.Hotel
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			metrics.RecordCacheHit(hotelCacheName)
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logger.Log.Warn("Hotel cache read failed", zap.Error(err))
		}
		metrics.RecordCacheMiss(hotelCacheName)
	}

	hotel, err := s.hotels.GetHotel(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHotelNotFound
	} else if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, hotel, s.cacheTTL); err != nil {
			logger.Log.Warn("Hotel cache write failed", zap.Error(err))
		}
	}
	return hotel, nil
}

func (s *Service) invalidateHotel(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, hotelCacheKey(id)); err != nil {
		logger.Log.Warn("Hotel cache invalidation failed", logger.WithHotelID(id), zap.Error(err))
	}
}

// ownedHotel loads a hotel the user may manage: its owner or an administrator
func (s *Service) ownedHotel(ctx context.Context, user *models.User, hotelID uint) (*models.Hotel, error) {
	hotel, err := s.hotels.GetHotel(ctx, hotelID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHotelNotFound
	} else if err != nil {
		return nil, err
	}
	if hotel.UserID != user.ID && !user.Role.IsAdmin() {
		return nil, ErrNotHotelOwner
	}
	return hotel, nil
}

// SetHotelImage uploads an image and makes it the hotel's picture
func (s *Service) SetHotelImage(ctx context.Context, user *models.User, hotelID uint, file multipart.File, header *multipart.FileHeader) (*models.Hotel, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	hotel, err := s.ownedHotel(ctx, user, hotelID)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.UploadImage(ctx, file, header, "hotels/"+strconv.FormatUint(uint64(hotel.ID), 10))
	metrics.RecordImageUpload(err)
	if err != nil {
		return nil, err
	}

	if err := s.hotels.UpdateHotelImage(ctx, hotel.ID, result.URL); err != nil {
		return nil, fmt.Errorf("failed to save hotel image: %w", err)
	}
	s.invalidateHotel(ctx, hotel.ID)
	hotel.Image = result.URL
	return hotel, nil
}

// AddRoom adds a room to a hotel the user manages
func (s *Service) AddRoom(ctx context.Context, user *models.User, hotelID uint, req dto.CreateRoomRequest) (*models.Room, error) {
	hotel, err := s.ownedHotel(ctx, user, hotelID)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		HotelID:     hotel.ID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Image:       req.Image,
		Cost:        req.Cost,
		Status:      models.RoomAvailable,
	}
	if err := s.hotels.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	s.invalidateHotel(ctx, hotel.ID)
	return room, nil
}

// ListRooms returns the rooms of a hotel
func (s *Service) ListRooms(ctx context.Context, hotelID uint) ([]*models.Room, error) {
	if _, err := s.hotels.GetHotel(ctx, hotelID); errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHotelNotFound
	} else if err != nil {
		return nil, err
	}
	return s.hotels.ListRooms(ctx, hotelID)
}

// uniqueIDs drops repeated ids, keeping the first occurrence order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkHotelRooms verifies the hotel exists and every room id belongs to it
func (s *Service) checkHotelRooms(ctx context.Context, hotelID uint, roomIDs []uint) ([]*models.Room, error) {
	if _, err := s.hotels.GetHotel(ctx, hotelID); errors.Is(err, repository.ErrNotFound) {
		return nil, ErrHotelNotFound
	} else if err != nil {
		return nil, err
	}

	rooms, err := s.hotels.GetHotelRooms(ctx, hotelID, roomIDs)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(roomIDs) {
		return nil, ErrRoomsNotInHotel
	}
	return rooms, nil
}

// Book reserves the requested rooms of one hotel for the user, one booking per room
func (s *Service) Book(ctx context.Context, user *models.User, req dto.BookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.create",
		attribute.Int("booking.hotel_id", int(req.HotelID)),
		attribute.Int("booking.rooms", len(req.Rooms)),
	)
	resp, err := s.book(ctx, user, req)
	telemetry.EndSpan(span, err)
	return resp, err
}

func (s *Service) book(ctx context.Context, user *models.User, req dto.BookingRequest) (*dto.BookingResponse, error) {
	arrival, err := parseDate(req.ArrivalDate)
	if err != nil {
		return nil, err
	}
	leaving, err := parseDate(req.LeavingDate)
	if err != nil {
		return nil, err
	}

	today := s.today()
	switch {
	case arrival.Before(today):
		metrics.RecordBooking("invalid_dates", 0)
		return nil, ErrArrivalInPast
	case leaving.Before(today):
		metrics.RecordBooking("invalid_dates", 0)
		return nil, ErrLeavingInPast
	case leaving.Before(arrival):
		metrics.RecordBooking("invalid_dates", 0)
		return nil, ErrLeavingBeforeArrive
	}

	roomIDs := uniqueIDs(req.Rooms)
	if _, err := s.checkHotelRooms(ctx, req.HotelID, roomIDs); err != nil {
		if errors.Is(err, ErrRoomsNotInHotel) {
			metrics.RecordBooking("unregistered_rooms", 0)
		}
		return nil, err
	}

	bookings := make([]*models.Booking, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		bookings = append(bookings, &models.Booking{
			UserID:      user.ID,
			HotelID:     req.HotelID,
			RoomID:      roomID,
			ArrivalDate: arrival,
			LeavingDate: leaving,
		})
	}

	if err := s.bookings.CreateBookings(ctx, bookings); err != nil {
		if errors.Is(err, repository.ErrRoomsBooked) {
			metrics.RecordBooking("conflict", 0)
			return nil, ErrRoomsBooked
		}
		return nil, fmt.Errorf("failed to create bookings: %w", err)
	}

	metrics.RecordBooking("created", len(bookings))
	logger.Log.Info("Accommodation booked",
		logger.WithUserID(user.ID),
		logger.WithHotelID(req.HotelID),
		zap.Int("rooms", len(bookings)),
	)

	return &dto.BookingResponse{
		HotelID:     req.HotelID,
		ArrivalDate: arrival.Format(validation.DateLayout),
		LeavingDate: leaving.Format(validation.DateLayout),
		Bookings:    bookings,
	}, nil
}

// ListBookings returns the bookings visible to user: administrators see all,
// suppliers see their hotels' bookings, everyone else their own
func (s *Service) ListBookings(ctx context.Context, user *models.User) ([]*models.Booking, error) {
	switch {
	case user.Role.IsAdmin():
		return s.bookings.ListBookings(ctx)
	case user.Role == models.RoleSupplier:
		return s.bookings.ListBookingsByHotelOwner(ctx, user.ID)
	default:
		return s.bookings.ListBookingsByUser(ctx, user.ID)
	}
}
