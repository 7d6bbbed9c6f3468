package connection

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	StoreDriver     string // firestore, mongo or memory
	FirebaseCreds   string
	StorageBucket   string
	MongoURI        string
	MongoDatabase   string
	UploadDriver    string // firebase, cloudinary or memory
	CloudinaryURL   string
	RecaptchaProjID string
	RecaptchaKey    string
	RecaptchaCreds  string

	SweepSchedule   string
	BookingLocation *time.Location
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or failed to load")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		StoreDriver:     getEnv("STORE_DRIVER", "firestore"),
		FirebaseCreds:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1"),
		StorageBucket:   os.Getenv("FIREBASE_STORAGE_BUCKET"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "hotelbooking"),
		UploadDriver:    getEnv("UPLOAD_DRIVER", "firebase"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		RecaptchaProjID: os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		RecaptchaKey:    os.Getenv("RECAPTCHA_SITE_KEY"),
		RecaptchaCreds:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_2"),
		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "@every 1h"),
	}

	loc, err := time.LoadLocation(getEnv("BOOKING_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("BOOKING_TIMEZONE: %w", err)
	}
	cfg.BookingLocation = loc

	if os.Getenv("JWT_SECRET_KEY") == "" || os.Getenv("JWT_REFRESH_SECRET_KEY") == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
