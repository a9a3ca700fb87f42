package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // LANES_DATABASE_URL (required)
	HTTPAddr    string // LANES_HTTP_ADDR (default ":8080")
	NATSURL     string // LANES_NATS_URL (optional, empty = no events)
	AuthToken   string // LANES_AUTH_TOKEN (optional, empty = auth disabled)
	CatalogPath string // LANES_CATALOG_PATH (default "catalog.toml")

	// Worker settings
	Workers        int           // LANES_WORKERS (default 4)
	QueueSize      int           // LANES_QUEUE_SIZE (default 64)
	ProcessTimeout time.Duration // LANES_PROCESS_TIMEOUT (default 2m)

	// Export settings
	ExportInterval   time.Duration // LANES_EXPORT_INTERVAL (default 0 = disabled)
	ExportS3Bucket   string        // LANES_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // LANES_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // LANES_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // LANES_EXPORT_S3_KEY (default "lanes/export.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("LANES_DATABASE_URL"),
		HTTPAddr:         envOrDefault("LANES_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("LANES_NATS_URL"),
		AuthToken:        os.Getenv("LANES_AUTH_TOKEN"),
		CatalogPath:      envOrDefault("LANES_CATALOG_PATH", "catalog.toml"),
		ExportS3Bucket:   os.Getenv("LANES_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("LANES_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("LANES_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("LANES_EXPORT_S3_KEY", "lanes/export.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("LANES_DATABASE_URL is required")
	}

	var err error
	if c.Workers, err = envInt("LANES_WORKERS", 4); err != nil {
		return nil, err
	}
	if c.QueueSize, err = envInt("LANES_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	if c.ProcessTimeout, err = envDuration("LANES_PROCESS_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if c.ExportInterval, err = envDuration("LANES_EXPORT_INTERVAL", 0); err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
