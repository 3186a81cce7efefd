package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned when a required setting is absent.
var ErrNotConfigured = errors.New("media offload is not configured")

// Config holds the offload settings handed to the Reconciler at construction.
type Config struct {
	// PublicURL is the public base URL of the bucket (e.g. https://media.example.com).
	PublicURL string `mapstructure:"public_url" default:""`
	// UploadDir is the local directory the CMS stores uploads in.
	UploadDir string `mapstructure:"upload_dir" default:""`
	// UploadURL is the public base URL of UploadDir.
	UploadURL string `mapstructure:"upload_url" default:""`
	// KeepLocal keeps local copies after a successful offload.
	KeepLocal bool `mapstructure:"keep_local" default:"true"`
	// StatusCacheSeconds is how long a remote listing is reused by status reports.
	StatusCacheSeconds int `mapstructure:"status_cache_seconds" default:"60"`
}

// Validate reports every required field that is missing, wrapped in ErrNotConfigured.
func (c Config) Validate() error {
	var missing []string
	if c.PublicURL == "" {
		missing = append(missing, "public_url")
	}
	if c.UploadDir == "" {
		missing = append(missing, "upload_dir")
	}
	if c.UploadURL == "" {
		missing = append(missing, "upload_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// StatusTTL returns the remote listing cache lifetime. Zero disables caching.
func (c Config) StatusTTL() time.Duration {
	if c.StatusCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.StatusCacheSeconds) * time.Second
}
