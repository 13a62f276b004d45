// Package config contains utilities for loading configs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const (
	configFilePath = "/data/mealmate.yaml"
	appSecretBytes = 32
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

type AppSecretValue string

func (a AppSecretValue) Validate() error {
	if len([]byte(a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

type AppSecret struct {
	Value   AppSecretValue `yaml:"value"`
	Version string         `yaml:"version"`
}

type Fileserver struct {
	Volume    string `yaml:"volume"`
	URLPrefix string `yaml:"url_prefix"`
}

type Config struct {
	AppSecret   AppSecret  `yaml:"app_secret"`
	DatabaseURL string     `yaml:"database_url" validate:"required"`
	Fileserver  Fileserver `yaml:"fileserver"`
	HostOrigin  string     `yaml:"host_origin" validate:"url"`
	Env         string     `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	Port        uint16     `yaml:"port"`
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HostOrigin:  loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
		Env:         loadWithDefault("ENV", EnvDev),
		AppSecret: AppSecret{
			Value:   AppSecretValue(os.Getenv("APP_SECRET")),
			Version: loadWithDefault("APP_SECRET_VERSION", "1"),
		},
		Fileserver: Fileserver{
			Volume:    loadWithDefault("FILESERVER_VOLUME", "/data/files"),
			URLPrefix: loadWithDefault("FILESERVER_URL_PREFIX", "/files"),
		},
	}

	port := loadWithDefault("PORT", "8080")
	if p, err := strconv.ParseUint(port, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid PORT (%q): %w", port, err)
	} else {
		conf.Port = uint16(p)
	}

	return conf, validateConfig(conf)
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Fileserver.Volume == "" {
		config.Fileserver.Volume = "/data/files"
	}
	if config.Fileserver.URLPrefix == "" {
		config.Fileserver.URLPrefix = "/files"
	}
	if config.Port == 0 {
		config.Port = 8080
	}

	return config, validateConfig(config)
}

// validateConfig fails fast when the database connection string or the
// token-signing secret is absent. The process must not come up without them.
func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return errors.New("database connection string not set (DATABASE_URL)")
	}
	if config.AppSecret.Value == "" {
		return errors.New("token-signing secret not set (APP_SECRET)")
	}
	if err := config.AppSecret.Value.Validate(); err != nil {
		return fmt.Errorf("validating app secret: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return err
	}
	return nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
