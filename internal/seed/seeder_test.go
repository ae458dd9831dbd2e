package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

func TestSeed(t *testing.T) {
	logger.InitializeForTest()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer database.Close(db)

	seeder := NewSeeder(db, Options{Locations: 2, HotelsPerCity: 2, RoomsPerHotel: 3, RandomSeed: 42})
	result, err := seeder.Seed()
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 4, Locations: 2, Hotels: 4, Rooms: 12}, result)

	var supplier models.User
	require.NoError(t, db.Where("email = ?", DemoEmail(models.RoleSupplier)).First(&supplier).Error)
	assert.True(t, supplier.IsVerified)
	require.NotNil(t, supplier.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*supplier.PasswordHash), []byte(DemoPassword)))

	var hotels []models.Hotel
	require.NoError(t, db.Find(&hotels).Error)
	for _, hotel := range hotels {
		assert.Equal(t, supplier.ID, hotel.UserID)
	}

	// A second run reuses the demo users
	result, err = seeder.Seed()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Users)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(4), count)

	require.NoError(t, seeder.Clean())
	db.Model(&models.Room{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}
