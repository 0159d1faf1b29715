package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string
	OCRBaseURL string
	Timezone   string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:     os.Getenv("APP_ENV"),
			Port:       os.Getenv("PORT"),
			DBUser:     os.Getenv("DB_USER"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     os.Getenv("DB_PORT"),
			DBName:     os.Getenv("DB_NAME"),
			JWTSecret:  os.Getenv("JWT_SECRET"),
			OCRBaseURL: os.Getenv("OCR_BASE_URL"),
			Timezone:   os.Getenv("TIMEZONE"),
		}
		if cfg.Timezone == "" {
			cfg.Timezone = "America/Sao_Paulo"
		}
	})
	return cfg
}

// Location returns the canonical timezone for the application. Every date
// boundary (dashboard windows, daily buckets, DSN) must use this location so
// that "today" means the same thing everywhere.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: invalid TIMEZONE %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}
