package config

import (
	"testing"
	"time"
)

// lanesEnvVars lists all env vars that must be cleared between tests.
var lanesEnvVars = []string{
	"LANES_DATABASE_URL", "LANES_HTTP_ADDR", "LANES_NATS_URL", "LANES_AUTH_TOKEN",
	"LANES_CATALOG_PATH", "LANES_WORKERS", "LANES_QUEUE_SIZE", "LANES_PROCESS_TIMEOUT",
	"LANES_EXPORT_INTERVAL", "LANES_EXPORT_S3_BUCKET", "LANES_EXPORT_S3_ENDPOINT",
	"LANES_EXPORT_S3_REGION", "LANES_EXPORT_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range lanesEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
		wantCatalog  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "Defaults",
			env:          map[string]string{"LANES_DATABASE_URL": "postgres://localhost/lanes"},
			wantHTTPAddr: ":8080",
			wantCatalog:  "catalog.toml",
		},
		{
			name: "Custom",
			env: map[string]string{
				"LANES_DATABASE_URL": "postgres://db:5432/lanes",
				"LANES_HTTP_ADDR":    ":3000",
				"LANES_NATS_URL":     "nats://localhost:4222",
				"LANES_CATALOG_PATH": "/etc/lanes/catalog.toml",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
			wantCatalog:  "/etc/lanes/catalog.toml",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["LANES_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["LANES_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.CatalogPath != tc.wantCatalog {
				t.Errorf("CatalogPath = %q, want %q", cfg.CatalogPath, tc.wantCatalog)
			}
		})
	}
}

func TestLoadWorkerDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("LANES_DATABASE_URL", "postgres://localhost/lanes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.QueueSize != 64 {
		t.Errorf("QueueSize = %d, want 64", cfg.QueueSize)
	}
	if cfg.ProcessTimeout != 2*time.Minute {
		t.Errorf("ProcessTimeout = %v, want 2m", cfg.ProcessTimeout)
	}
	if cfg.ExportInterval != 0 {
		t.Errorf("ExportInterval = %v, want 0 (disabled)", cfg.ExportInterval)
	}
	if cfg.ExportS3Region != "us-east-1" {
		t.Errorf("ExportS3Region = %q, want us-east-1", cfg.ExportS3Region)
	}
	if cfg.ExportS3Key != "lanes/export.jsonl" {
		t.Errorf("ExportS3Key = %q", cfg.ExportS3Key)
	}
}

func TestLoadWorkerCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("LANES_DATABASE_URL", "postgres://localhost/lanes")
	t.Setenv("LANES_WORKERS", "8")
	t.Setenv("LANES_QUEUE_SIZE", "256")
	t.Setenv("LANES_PROCESS_TIMEOUT", "30s")
	t.Setenv("LANES_EXPORT_INTERVAL", "10m")
	t.Setenv("LANES_EXPORT_S3_BUCKET", "my-bucket")
	t.Setenv("LANES_EXPORT_S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.QueueSize != 256 {
		t.Errorf("QueueSize = %d, want 256", cfg.QueueSize)
	}
	if cfg.ProcessTimeout != 30*time.Second {
		t.Errorf("ProcessTimeout = %v, want 30s", cfg.ProcessTimeout)
	}
	if cfg.ExportInterval != 10*time.Minute {
		t.Errorf("ExportInterval = %v, want 10m", cfg.ExportInterval)
	}
	if cfg.ExportS3Bucket != "my-bucket" {
		t.Errorf("ExportS3Bucket = %q", cfg.ExportS3Bucket)
	}
	if cfg.ExportS3Endpoint != "http://minio:9000" {
		t.Errorf("ExportS3Endpoint = %q", cfg.ExportS3Endpoint)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	for _, tc := range []struct {
		name string
		key  string
		val  string
	}{
		{"BadWorkers", "LANES_WORKERS", "many"},
		{"BadQueueSize", "LANES_QUEUE_SIZE", "1.5"},
		{"BadTimeout", "LANES_PROCESS_TIMEOUT", "soon"},
		{"BadExportInterval", "LANES_EXPORT_INTERVAL", "not-a-duration"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			t.Setenv("LANES_DATABASE_URL", "postgres://localhost/lanes")
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for invalid %s", tc.key)
			}
		})
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
