package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSecret = "test-secret-32-bytes-long-123456"

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "APP_SECRET", "APP_SECRET_VERSION",
		"ENV", "HOST_ORIGIN", "FILESERVER_VOLUME", "FILESERVER_URL_PREFIX", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*testing.T)
		wantError string
		validate  func(*testing.T, Config)
	}{
		{
			name: "all defaults",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://mealmate:pw@localhost:5432/mealmate")
				t.Setenv("APP_SECRET", testSecret)
			},
			validate: func(t *testing.T, c Config) {
				if c.Env != EnvDev {
					t.Errorf("expected Env %q, got %q", EnvDev, c.Env)
				}
				if c.HostOrigin != "http://localhost:8080" {
					t.Errorf("expected HostOrigin %q, got %q", "http://localhost:8080", c.HostOrigin)
				}
				if c.AppSecret.Version != "1" {
					t.Errorf("expected AppSecret.Version %q, got %q", "1", c.AppSecret.Version)
				}
				if c.Fileserver.Volume != "/data/files" {
					t.Errorf("expected Fileserver.Volume %q, got %q", "/data/files", c.Fileserver.Volume)
				}
				if c.Fileserver.URLPrefix != "/files" {
					t.Errorf("expected Fileserver.URLPrefix %q, got %q", "/files", c.Fileserver.URLPrefix)
				}
				if c.Port != 8080 {
					t.Errorf("expected Port 8080, got %d", c.Port)
				}
			},
		},
		{
			name: "custom environment values",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://db.example.com/mealmate")
				t.Setenv("APP_SECRET", testSecret)
				t.Setenv("APP_SECRET_VERSION", "2")
				t.Setenv("ENV", "PROD")
				t.Setenv("HOST_ORIGIN", "https://mealmate.example.com")
				t.Setenv("FILESERVER_VOLUME", "/custom/files")
				t.Setenv("FILESERVER_URL_PREFIX", "/uploads")
				t.Setenv("PORT", "9090")
			},
			validate: func(t *testing.T, c Config) {
				if c.Env != EnvProd {
					t.Errorf("expected Env %q, got %q", EnvProd, c.Env)
				}
				if c.HostOrigin != "https://mealmate.example.com" {
					t.Errorf("expected custom HostOrigin, got %q", c.HostOrigin)
				}
				if c.AppSecret.Version != "2" {
					t.Errorf("expected AppSecret.Version %q, got %q", "2", c.AppSecret.Version)
				}
				if c.Fileserver.Volume != "/custom/files" {
					t.Errorf("expected custom volume, got %q", c.Fileserver.Volume)
				}
				if c.Port != 9090 {
					t.Errorf("expected Port 9090, got %d", c.Port)
				}
			},
		},
		{
			name: "missing database url fails fast",
			setup: func(t *testing.T) {
				t.Setenv("APP_SECRET", testSecret)
			},
			wantError: "database connection string not set",
		},
		{
			name: "missing app secret fails fast",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://localhost/mealmate")
			},
			wantError: "token-signing secret not set",
		},
		{
			name: "short app secret rejected",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://localhost/mealmate")
				t.Setenv("APP_SECRET", "too-short")
			},
			wantError: "at least 32 bytes",
		},
		{
			name: "invalid port rejected",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://localhost/mealmate")
				t.Setenv("APP_SECRET", testSecret)
				t.Setenv("PORT", "not-a-port")
			},
			wantError: "invalid PORT",
		},
		{
			name: "unknown env rejected",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_URL", "postgres://localhost/mealmate")
				t.Setenv("APP_SECRET", testSecret)
				t.Setenv("ENV", "STAGING")
			},
			wantError: "Env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			tt.setup(t)

			conf, err := loadConfigFromEnv()
			if tt.wantError != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("error = %v, want it to mention %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfigFromEnv() error = %v", err)
			}
			tt.validate(t, conf)
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	contents := `database_url: postgres://localhost:5432/mealmate
app_secret:
  value: test-secret-32-bytes-long-123456
  version: "3"
host_origin: https://mealmate.example.com
env: PROD
port: 9000
fileserver:
  volume: /srv/files
  url_prefix: /static
`
	path := filepath.Join(t.TempDir(), "mealmate.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	conf, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}

	if conf.DatabaseURL != "postgres://localhost:5432/mealmate" {
		t.Errorf("DatabaseURL = %q", conf.DatabaseURL)
	}
	if conf.AppSecret.Version != "3" {
		t.Errorf("AppSecret.Version = %q, want %q", conf.AppSecret.Version, "3")
	}
	if conf.Env != EnvProd {
		t.Errorf("Env = %q, want %q", conf.Env, EnvProd)
	}
	if conf.Port != 9000 {
		t.Errorf("Port = %d, want 9000", conf.Port)
	}
	if conf.Fileserver.Volume != "/srv/files" {
		t.Errorf("Fileserver.Volume = %q", conf.Fileserver.Volume)
	}
}

func TestLoadConfigFromFile_Defaults(t *testing.T) {
	contents := `database_url: postgres://localhost:5432/mealmate
app_secret:
  value: test-secret-32-bytes-long-123456
`
	path := filepath.Join(t.TempDir(), "mealmate.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	conf, err := loadConfigFromFile(path)
	if err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}

	if conf.AppSecret.Version != "1" {
		t.Errorf("AppSecret.Version = %q, want default %q", conf.AppSecret.Version, "1")
	}
	if conf.Env != EnvDev {
		t.Errorf("Env = %q, want default %q", conf.Env, EnvDev)
	}
	if conf.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", conf.Port)
	}
}

func TestLoadConfigFromFile_Missing(t *testing.T) {
	if _, err := loadConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
