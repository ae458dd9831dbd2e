package booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/telemetry"
)

// CreateTrip files a pending travel request and reserves its rooms
func (s *Service) CreateTrip(ctx context.Context, user *models.User, req dto.TripRequest) (*models.Trip, error) {
	ctx, span := telemetry.StartSpan(ctx, "trip.create",
		attribute.String("trip.type", req.Type),
		attribute.Int("trip.rooms", len(req.Rooms)),
	)
	trip, err := s.createTrip(ctx, user, req)
	telemetry.EndSpan(span, err)
	return trip, err
}

func (s *Service) createTrip(ctx context.Context, user *models.User, req dto.TripRequest) (*models.Trip, error) {
	travel, err := parseDate(req.TravelDate)
	if err != nil {
		return nil, err
	}
	if travel.Before(s.today()) {
		return nil, ErrTravelInPast
	}

	trip := &models.Trip{
		UserID:      user.ID,
		LeavingFrom: req.LeavingFrom,
		GoingTo:     req.GoingTo,
		TravelDate:  travel,
		Reason:      req.Reason,
		HotelID:     req.HotelID,
		Type:        models.TripType(req.Type),
		Status:      models.TripPending,
	}

	if trip.Type == models.TripReturn {
		if req.ReturnDate == "" {
			return nil, ErrReturnDateRequired
		}
		returnDate, err := parseDate(req.ReturnDate)
		if err != nil {
			return nil, err
		}
		if returnDate.Before(travel) {
			return nil, ErrReturnBeforeTravel
		}
		trip.ReturnDate = &returnDate
	}

	roomIDs := uniqueIDs(req.Rooms)
	rooms, err := s.checkHotelRooms(ctx, req.HotelID, roomIDs)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if room.Status != models.RoomAvailable {
			return nil, ErrRoomsReserved
		}
	}

	if err := s.trips.CreateTrip(ctx, trip, roomIDs); err != nil {
		if errors.Is(err, repository.ErrRoomsReserved) {
			return nil, ErrRoomsReserved
		}
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	if len(roomIDs) > 0 {
		s.invalidateHotel(ctx, req.HotelID)
	}

	metrics.RecordTrip(string(trip.Status))
	logger.Log.Info("Trip requested",
		logger.WithUserID(user.ID),
		logger.WithHotelID(trip.HotelID),
		zap.Uint("trip_id", trip.ID),
	)
	return trip, nil
}

// ListTrips returns all trips for administrators and the user's own otherwise
func (s *Service) ListTrips(ctx context.Context, user *models.User) ([]*models.Trip, error) {
	if user.Role.IsAdmin() {
		return s.trips.ListTrips(ctx)
	}
	return s.trips.ListTripsByUser(ctx, user.ID)
}

// UpdateTripStatus approves or rejects a trip
func (s *Service) UpdateTripStatus(ctx context.Context, tripID uint, status models.TripStatus) (*models.Trip, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.trips.UpdateTripStatus(ctx, tripID, status); errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTripNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	metrics.RecordTrip(string(status))
	return trip, nil
}
