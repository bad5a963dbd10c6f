// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Verification VerificationConfig
	Webhook      WebhookConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	IssuerURL string
	JWKSURI   string
}

// VerificationConfig holds the endpoints of the external verification
// service that performs the actual document and biometric analysis.
type VerificationConfig struct {
	OCRExtractionURL    string
	FaceDetectionURL    string
	FaceVerificationURL string
	LivenessURL         string
}

type WebhookConfig struct {
	SigningSecret string
	Timeout       time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
			Host: getEnvOrDefault("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnvOrDefault("MONGODB_DATABASE", "kycverify"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			IssuerURL: os.Getenv("AUTH_ISSUER_URL"),
			JWKSURI:   os.Getenv("AUTH_JWKS_URI"),
		},
		Verification: VerificationConfig{
			OCRExtractionURL:    os.Getenv("OCR_EXTRACTION_API_URL"),
			FaceDetectionURL:    os.Getenv("FACE_DETECTION_API_URL"),
			FaceVerificationURL: os.Getenv("FACE_VERIFICATION_API_URL"),
			LivenessURL:         os.Getenv("LIVENESS_API_URL"),
		},
		Webhook: WebhookConfig{
			SigningSecret: os.Getenv("WEBHOOK_SIGNING_SECRET"),
			Timeout:       time.Duration(getEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 10)) * time.Second,
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Auth.IssuerURL == "" {
		return fmt.Errorf("AUTH_ISSUER_URL is required")
	}
	if c.Verification.OCRExtractionURL == "" {
		return fmt.Errorf("OCR_EXTRACTION_API_URL is required")
	}
	if c.Verification.FaceDetectionURL == "" {
		return fmt.Errorf("FACE_DETECTION_API_URL is required")
	}
	if c.Verification.FaceVerificationURL == "" {
		return fmt.Errorf("FACE_VERIFICATION_API_URL is required")
	}
	if c.Verification.LivenessURL == "" {
		return fmt.Errorf("LIVENESS_API_URL is required")
	}
	if c.Webhook.SigningSecret == "" {
		return fmt.Errorf("WEBHOOK_SIGNING_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
