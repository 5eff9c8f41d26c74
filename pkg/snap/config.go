package snap

import "fmt"

// Default tunables.
const (
	DefaultElementRange         = 20
	DefaultConnectionPointRange = 10
	DefaultDetachVelocity       = 5
	DefaultMarkerSize           = 3
)

// Config holds the snap tunables. The zero value is not useful; start
// from [DefaultConfig].
type Config struct {
	// ElementRange grows a shape's bounds when looking for nearby shapes.
	ElementRange int `toml:"element_range"`
	// ConnectionPointRange is the per-axis distance within which an
	// endpoint snaps to a connection point.
	ConnectionPointRange int `toml:"connection_point_range"`
	// DetachVelocity is the per-step drag distance that pulls an attached
	// endpoint free.
	DetachVelocity int `toml:"detach_velocity"`
	// MarkerSize is the half-width of a drawn connection-point marker.
	MarkerSize int `toml:"marker_size"`
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		ElementRange:         DefaultElementRange,
		ConnectionPointRange: DefaultConnectionPointRange,
		DetachVelocity:       DefaultDetachVelocity,
		MarkerSize:           DefaultMarkerSize,
	}
}

// Validate rejects negative ranges and a non-positive detach velocity.
func (c Config) Validate() error {
	switch {
	case c.ElementRange < 0:
		return fmt.Errorf("element_range must not be negative, got %d", c.ElementRange)
	case c.ConnectionPointRange < 0:
		return fmt.Errorf("connection_point_range must not be negative, got %d", c.ConnectionPointRange)
	case c.DetachVelocity <= 0:
		return fmt.Errorf("detach_velocity must be positive, got %d", c.DetachVelocity)
	case c.MarkerSize < 0:
		return fmt.Errorf("marker_size must not be negative, got %d", c.MarkerSize)
	}
	return nil
}
