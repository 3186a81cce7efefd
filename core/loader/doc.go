// Package loader registers application features and mounts their routes.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager loads enabled features in registration order and stops at
// the first one that fails to load.
package loader
