package reservations

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
)

var today = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func roomStatus(t *testing.T, db *gorm.DB, id uint) models.RoomStatus {
	var room models.Room
	require.NoError(t, db.First(&room, id).Error)
	return room.Status
}

func TestReleaseOnce(t *testing.T) {
	logger.InitializeForTest()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer database.Close(db)

	ctx := context.Background()
	location := &models.Location{City: "Kigali", Country: "Rwanda"}
	require.NoError(t, db.Create(location).Error)
	hotel := &models.Hotel{LocationID: location.ID, UserID: 1, Name: "Serena"}
	for i := 0; i < 3; i++ {
		hotel.Rooms = append(hotel.Rooms, models.Room{Name: "Room", Status: models.RoomAvailable})
	}
	require.NoError(t, db.Create(hotel).Error)
	ended, upcoming, rejected := hotel.Rooms[0].ID, hotel.Rooms[1].ID, hotel.Rooms[2].ID

	trips := repository.NewTripRepository(db)
	returned := today.AddDate(0, 0, -2)
	require.NoError(t, trips.CreateTrip(ctx, &models.Trip{
		UserID: 1, HotelID: hotel.ID, Type: models.TripReturn, Status: models.TripApproved,
		TravelDate: today.AddDate(0, 0, -7), ReturnDate: &returned,
	}, []uint{ended}))
	require.NoError(t, trips.CreateTrip(ctx, &models.Trip{
		UserID: 1, HotelID: hotel.ID, Type: models.TripOneWay, Status: models.TripPending,
		TravelDate: today,
	}, []uint{upcoming}))
	require.NoError(t, trips.CreateTrip(ctx, &models.Trip{
		UserID: 1, HotelID: hotel.ID, Type: models.TripOneWay, Status: models.TripRejected,
		TravelDate: today.AddDate(0, 0, 10),
	}, []uint{rejected}))

	svc := NewReleaseService(trips, time.Hour)
	svc.now = func() time.Time { return today.Add(9 * time.Hour) }

	assert.Equal(t, int64(2), svc.ReleaseOnce(ctx))
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, ended))
	assert.Equal(t, models.RoomReserved, roomStatus(t, db, upcoming))
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, rejected))

	assert.Zero(t, svc.ReleaseOnce(ctx))

	// The next day the one-way trip is over too
	svc.now = func() time.Time { return today.AddDate(0, 0, 1) }
	assert.Equal(t, int64(1), svc.ReleaseOnce(ctx))
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, upcoming))
}

type failingReleaser struct{ calls atomic.Int32 }

func (f *failingReleaser) ReleaseRooms(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls.Add(1)
	return 0, errors.New("database unavailable")
}

func TestStartStop(t *testing.T) {
	logger.InitializeForTest()
	releaser := &failingReleaser{}
	svc := NewReleaseService(releaser, time.Hour)

	svc.Start()
	assert.Eventually(t, func() bool { return releaser.calls.Load() > 0 }, time.Second, 10*time.Millisecond)
	svc.Stop()
	assert.Equal(t, int32(1), releaser.calls.Load())
}
