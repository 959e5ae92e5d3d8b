package server

import (
	"os"
	"strconv"

	"github.com/esimov/pixkit"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	// MaxUpload is the image upload ceiling in bytes.
	MaxUpload int
	// MaxPixels is the decoded image area ceiling.
	MaxPixels int
	// CascadePath points to a pigo face cascade enabling face aware crops.
	CascadePath string
}

// Load reads the PIXKIT_* environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PIXKIT_PORT", "3000"),
		Environment:  getEnv("PIXKIT_ENV", "development"),
		ReadTimeout:  getEnvAsInt("PIXKIT_READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("PIXKIT_WRITE_TIMEOUT", 30),
		MaxUpload:    getEnvAsInt("PIXKIT_MAX_UPLOAD", pixkit.DefaultMaxBytes),
		MaxPixels:    getEnvAsInt("PIXKIT_MAX_PIXELS", pixkit.DefaultMaxPixels),
		CascadePath:  getEnv("PIXKIT_CASCADE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
