package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"food-donation-api-server/config"
	"food-donation-api-server/internal/api/routes"
	"food-donation-api-server/internal/auth"
	"food-donation-api-server/internal/database"
	"food-donation-api-server/internal/mailer"
	"food-donation-api-server/internal/s3"
	"food-donation-api-server/internal/scheduler"
	"food-donation-api-server/internal/socket"
	"food-donation-api-server/internal/store/mongostore"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	expiration, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid jwt.expiration")
	}
	issuer := auth.Issuer{Secret: []byte(cfg.JWT.Secret), Expiration: expiration}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}
	if err := database.SeedAdmin(ctx, db, cfg.Admin, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	st := mongostore.New(db)
	hub := socket.NewHub(log)
	mail := mailer.New(cfg.SMTP, log)

	var uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 uploader")
		}
	} else {
		log.Info().Msg("S3 bucket not configured, image uploads disabled")
	}

	sched := scheduler.New(st.Campaigns, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	router := routes.SetupRouter(cfg, st, issuer, hub, uploader, mail, log)

	log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}
