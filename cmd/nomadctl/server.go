package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/database"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/seed"
)

// withDatabase opens the server's configured database for fn
func withDatabase(fn func(db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	clog.Debug("Database connected", "driver", cfg.Database.Driver)
	return fn(db)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			printSuccess("Migrations complete")
			return nil
		})
	},
}

var (
	seedClean bool
	seedOpts  = seed.DefaultOptions
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, hotels and rooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			seeder := seed.NewSeeder(db, seedOpts)
			if seedClean {
				clog.Warn("Removing existing data")
				if err := seeder.Clean(); err != nil {
					return err
				}
			}

			result, err := seeder.Seed()
			if err != nil {
				return err
			}
			printSuccess("Seeded %d users, %d locations, %d hotels, %d rooms",
				result.Users, result.Locations, result.Hotels, result.Rooms)
			for _, role := range models.Roles {
				printInfo("  %-22s %s / %s", role, seed.DemoEmail(role), seed.DemoPassword)
			}
			return nil
		})
	},
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage user roles",
}

var (
	roleEmail string
	roleName  string
)

var roleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Assign a role to a user",
	Example: `  nomadctl role set --email jane@example.com --role travel_administrator`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(roleName)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", roleName)
		}

		return withDatabase(func(db *gorm.DB) error {
			ctx := context.Background()
			users := repository.NewUserRepository(db)

			user, err := users.GetUserByEmail(ctx, roleEmail)
			if errors.Is(err, repository.ErrUserNotFound) {
				return fmt.Errorf("no user with email %s", roleEmail)
			} else if err != nil {
				return err
			}
			if user.Role == role {
				printInfo("%s already has role %s", user.Email, role)
				return nil
			}

			if err := users.UpdateFields(ctx, user.ID, map[string]interface{}{"role": role}); err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
			printSuccess("%s is now %s (was %s)", user.Email, role, user.Role)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "Delete existing data first")
	seedCmd.Flags().IntVar(&seedOpts.Locations, "locations", seedOpts.Locations, "Number of locations")
	seedCmd.Flags().IntVar(&seedOpts.HotelsPerCity, "hotels", seedOpts.HotelsPerCity, "Hotels per location")
	seedCmd.Flags().IntVar(&seedOpts.RoomsPerHotel, "rooms", seedOpts.RoomsPerHotel, "Rooms per hotel")

	roleSetCmd.Flags().StringVar(&roleEmail, "email", "", "User email")
	roleSetCmd.Flags().StringVar(&roleName, "role", "", "requester, travel_administrator, suppliers or super_administrator")
	_ = roleSetCmd.MarkFlagRequired("email")
	_ = roleSetCmd.MarkFlagRequired("role")
	roleCmd.AddCommand(roleSetCmd)
}
