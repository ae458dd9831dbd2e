package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// DemoEmail is the address of the seeded account for role
func DemoEmail(role models.Role) string {
	return string(role) + "@barefoot.test"
}

// Options sizes a seeding run
type Options struct {
	Locations     int
	HotelsPerCity int
	RoomsPerHotel int
	RandomSeed    int64 // 0 seeds from the clock
}

// DefaultOptions is the development data set
var DefaultOptions = Options{Locations: 5, HotelsPerCity: 3, RoomsPerHotel: 4}

// Seeder handles database seeding operations
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{db: db, faker: gofakeit.New(uint64(seed)), opts: opts}
}

// Result counts what a run created
type Result struct {
	Users     int
	Locations int
	Hotels    int
	Rooms     int
}

// Seed creates one verified demo user per role, then locations with hotels and rooms
// owned by the supplier account. Demo users that already exist are reused.
func (s *Seeder) Seed() (*Result, error) {
	result := &Result{}

	users, created, err := s.seedUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	result.Users = created

	owner := users[models.RoleSupplier]
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < s.opts.Locations; i++ {
			location := &models.Location{City: s.faker.City(), Country: s.faker.Country()}
			if err := tx.Where(location).FirstOrCreate(location).Error; err != nil {
				return fmt.Errorf("failed to create location: %w", err)
			}
			result.Locations++

			for j := 0; j < s.opts.HotelsPerCity; j++ {
				hotel := s.fakeHotel(location, owner.ID)
				if err := tx.Create(hotel).Error; err != nil {
					return fmt.Errorf("failed to create hotel: %w", err)
				}
				result.Hotels++
				result.Rooms += len(hotel.Rooms)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Seed complete",
		zap.Int("users", result.Users),
		zap.Int("locations", result.Locations),
		zap.Int("hotels", result.Hotels),
		zap.Int("rooms", result.Rooms),
	)
	return result, nil
}

var roomTypes = []string{"single", "double", "twin", "suite", "family"}

func (s *Seeder) fakeHotel(location *models.Location, ownerID uint) *models.Hotel {
	hotel := &models.Hotel{
		LocationID:  location.ID,
		UserID:      ownerID,
		Name:        s.faker.Company() + " Hotel",
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.LetterN(8)),
		Description: fmt.Sprintf("A %s stay in the heart of %s", s.faker.Adjective(), location.City),
		Services:    "wifi,breakfast,parking",
	}
	for k := 0; k < s.opts.RoomsPerHotel; k++ {
		roomType := roomTypes[s.faker.IntN(len(roomTypes))]
		hotel.Rooms = append(hotel.Rooms, models.Room{
			Name:        fmt.Sprintf("Room %d", 101+k),
			Type:        roomType,
			Description: fmt.Sprintf("%s %s room", s.faker.Adjective(), roomType),
			Cost:        s.faker.Price(40, 400),
			Status:      models.RoomAvailable,
		})
	}
	return hotel
}

// seedUsers ensures a demo account for every role
func (s *Seeder) seedUsers() (map[models.Role]*models.User, int, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)

	users := make(map[models.Role]*models.User, len(models.Roles))
	created := 0
	for _, role := range models.Roles {
		var user models.User
		err := s.db.Where("email = ?", DemoEmail(role)).First(&user).Error
		if err == nil {
			users[role] = &user
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}

		user = models.User{
			FirstName:    s.faker.FirstName(),
			LastName:     s.faker.LastName(),
			Email:        DemoEmail(role),
			PasswordHash: &hash,
			Role:         role,
			IsVerified:   true,
			TwoFAType:    models.TwoFANone,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to create %s: %w", role, err)
		}
		users[role] = &user
		created++
	}
	return users, created, nil
}

// Clean removes all travel data and users
func (s *Seeder) Clean() error {
	// Delete in reverse order of dependencies
	for _, table := range []string{"trip_rooms", "trips", "bookings", "rooms", "hotels", "locations", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}
