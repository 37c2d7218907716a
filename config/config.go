package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const DefaultUploadsSubDir = "uploads"

const (
	defaultSessionTTLHours = 24
	defaultOptimizeMaxSize = 1920
	defaultJpegQuality     = 85
	defaultMaxUploadBytes  = 10 << 20 // 10 MiB per file
	defaultMaxBatchFiles   = 20
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// database path
	DatabasePath string

	// full-calculated path for uploaded originals
	UploadsPath string

	// admin credentials (shared secret)
	AdminUsername string
	AdminPassword string

	// session settings
	SessionTTLHours int

	// allowed browser origin for credentialed requests
	CORSOrigin string

	// image optimization settings
	OptimizeMaxSize int // longest side after optimization
	JpegQuality     int

	// upload limits
	MaxUploadBytes int64
	MaxBatchFiles  int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	// original deployment configured PORT only; LISTEN_ADDR wins when both are set
	addr := getEnvOrDefault("LISTEN_ADDR", "")
	if addr == "" {
		addr = ":" + getEnvOrDefault("PORT", "3000")
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "database.sqlite")

	uploads := getEnvOrDefault("UPLOADS_DIR", filepath.Join(".", DefaultUploadsSubDir))
	absUploads, err := filepath.Abs(uploads)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for uploads directory '%s': %w", uploads, err)
	}

	cfg := Config{
		ListenAddr:      addr,
		DatabasePath:    dbPath,
		UploadsPath:     absUploads,
		AdminUsername:   getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
		SessionTTLHours: getEnvIntOrDefault("SESSION_TTL_HOURS", defaultSessionTTLHours),
		CORSOrigin:      getEnvOrDefault("CORS_ORIGIN", "http://localhost:5173"),
		OptimizeMaxSize: getEnvIntOrDefault("OPTIMIZE_MAX_SIZE", defaultOptimizeMaxSize),
		JpegQuality:     getEnvIntOrDefault("JPEG_QUALITY", defaultJpegQuality),
		MaxUploadBytes:  int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		MaxBatchFiles:   getEnvIntOrDefault("MAX_BATCH_FILES", defaultMaxBatchFiles),
	}

	return cfg, nil
}
