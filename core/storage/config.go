package storage

import (
	"fmt"
	"strings"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service (e.g. https://<account>.r2.cloudflarestorage.com).
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	// An explicit http:// or https:// scheme on Endpoint takes precedence.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Bucket is the name of the bucket media is offloaded to.
	Bucket string `mapstructure:"bucket" default:""`
	// Region is the location of the bucket. R2 expects "auto".
	Region string `mapstructure:"region" default:"auto"`
	// PathStyle forces path-style addressing (bucket in the path, not the host).
	PathStyle bool `mapstructure:"path_style" default:"true"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate reports every required field that is missing.
func (c Config) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access_key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret_key")
	}
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("storage config missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
