package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// NonceTTLSeconds is how long an issued anti-replay token stays valid.
	NonceTTLSeconds int `mapstructure:"nonce_ttl_seconds" default:"600"`
}

// NonceTTL returns the anti-replay token lifetime, falling back to ten minutes.
func (c Config) NonceTTL() time.Duration {
	if c.NonceTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.NonceTTLSeconds) * time.Second
}
