package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"media-offload/core/catalog"
	"media-offload/core/database"
	"media-offload/core/logger"
	"media-offload/core/reconcile"
	"media-offload/core/server"
	"media-offload/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds the bucket endpoint and credentials.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the CMS database connection.
	Database database.Config `mapstructure:"database"`
	// Catalog holds the CMS table layout.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Offload holds the public URLs, upload directory and keep-local flag.
	Offload reconcile.Config `mapstructure:"offload"`
}

// Validate reports whether media offload can run. Storage and offload
// problems are both reported, wrapped in reconcile.ErrNotConfigured.
func (c *Config) Validate() error {
	var problems []error
	if err := c.Storage.Validate(); err != nil {
		problems = append(problems, fmt.Errorf("%w: storage: %w", reconcile.ErrNotConfigured, err))
	}
	if err := c.Offload.Validate(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := ".env"
	if path != "." && path != "" {
		envPath = filepath.Join(path, ".env")
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. OFFLOAD_PUBLIC_URL -> offload.public_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
