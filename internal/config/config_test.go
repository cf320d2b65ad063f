package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("DATA_PATH", "testdata/listings.csv")
	defer os.Unsetenv("DATA_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Render.DefaultStyle != "openstreetmap" {
		t.Errorf("Render.DefaultStyle = %q, want %q", cfg.Render.DefaultStyle, "openstreetmap")
	}
	if cfg.Render.DefaultZoom != 4 {
		t.Errorf("Render.DefaultZoom = %d, want %d", cfg.Render.DefaultZoom, 4)
	}
	if cfg.Render.SampleSize != 8000 {
		t.Errorf("Render.SampleSize = %d, want %d", cfg.Render.SampleSize, 8000)
	}
	if cfg.Filter.StrictNumeric {
		t.Error("Filter.StrictNumeric = true, want false by default")
	}
	if cfg.Rate.RequestsPerMinute != 120 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 120)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("DATA_PATH", "testdata/listings.csv")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("RENDER_SAMPLE_SIZE", "500")
	os.Setenv("FILTER_STRICT_NUMERIC", "true")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("DATA_PATH")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("RENDER_SAMPLE_SIZE")
		os.Unsetenv("FILTER_STRICT_NUMERIC")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Render.SampleSize != 500 {
		t.Errorf("Render.SampleSize = %d, want %d", cfg.Render.SampleSize, 500)
	}
	if !cfg.Filter.StrictNumeric {
		t.Error("Filter.StrictNumeric = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that DATASET_PATH works as fallback
	os.Setenv("DATASET_PATH", "testdata/alt.csv")
	defer os.Unsetenv("DATASET_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.Path != "testdata/alt.csv" {
		t.Errorf("Data.Path = %q, want %q", cfg.Data.Path, "testdata/alt.csv")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// Ensure DATA_PATH is not set
	os.Unsetenv("DATA_PATH")
	os.Unsetenv("DATASET_PATH")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing DATA_PATH")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("DATA_PATH", "testdata/listings.csv")
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("RENDER_MAX_WAIT_TIME", "1m30s")
	defer func() {
		os.Unsetenv("DATA_PATH")
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("RENDER_MAX_WAIT_TIME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Render.MaxWaitTime != 90*time.Second {
		t.Errorf("Render.MaxWaitTime = %v, want %v", cfg.Render.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("DATA_PATH", "testdata/listings.csv")
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	defer func() {
		os.Unsetenv("DATA_PATH")
		os.Unsetenv("TRUSTED_PROXIES")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{
		Data:    DataConfig{Path: "testdata/listings.csv"},
		Server:  ServerConfig{Port: 99999, ShutdownTimeout: time.Second},
		Render:  RenderConfig{ArtifactDir: "maps", DefaultZoom: 4, MaxConcurrent: 1, MaxWaitTime: time.Second, KeepArtifacts: 5},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RenderLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_ZoomOutOfRange(t *testing.T) {
	cfg := &Config{
		Data:    DataConfig{Path: "testdata/listings.csv"},
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Render:  RenderConfig{ArtifactDir: "maps", DefaultZoom: 15, MaxConcurrent: 1, MaxWaitTime: time.Second, KeepArtifacts: 5},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RenderLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for out-of-range zoom")
	}
	if !strings.Contains(err.Error(), "RENDER_DEFAULT_ZOOM") {
		t.Errorf("error should mention RENDER_DEFAULT_ZOOM: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Data:    DataConfig{Path: "testdata/listings.csv"},
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Render:  RenderConfig{ArtifactDir: "maps", DefaultZoom: 4, MaxConcurrent: 1, MaxWaitTime: time.Second, KeepArtifacts: 5},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RenderLimit: 10},
		Logging: LoggingConfig{Level: "verbose", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
