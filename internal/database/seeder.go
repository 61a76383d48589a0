package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"food-donation-api-server/config"
	"food-donation-api-server/internal/auth"
	"food-donation-api-server/internal/models"
)

// SeedAdmin creates the platform administrator account on first boot. A blank
// admin config skips seeding entirely.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg config.AdminConfig, log zerolog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Debug().Msg("admin seed not configured, skipping")
		return nil
	}

	users := db.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{"email": cfg.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Str("email", cfg.Email).Msg("admin already exists, seeding skipped")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:      "Platform Admin",
		Email:     cfg.Email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	}

	if _, err := users.InsertOne(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("email", cfg.Email).Msg("admin account seeded")
	return nil
}
