package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	MongoURI     string
	DatabaseName string
	JWTSecret    string
	TokenTTL     time.Duration
	Origin       string
	RedisAddr    string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	Timeout      time.Duration
}

// LoadConfig reads the environment (optionally via a .env file) into a
// Config. MONGODB_URI and JWT_SECRET have no usable defaults; the process
// must not start without them.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			panic("Error loading .env file")
		}
	}

	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		Env:          getEnv("ENV", "development"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: getEnv("DATABASE_NAME", "sims"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     24 * time.Hour,
		Origin:       getEnv("ORIGIN", "http://localhost:3000"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		Timeout:      10 * time.Second,
	}

	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

// IsDevelopment reports whether internal error detail may be sent to clients.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MailEnabled reports whether outbound notification mail is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
