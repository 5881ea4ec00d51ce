package accel

import "fmt"

const (
	// The default number of extents a leaf holds before it is split.
	DefaultMaxContents = 16

	// The default maximum octree depth. Leaves at this depth are never split.
	DefaultMaxDepth = 16
)

// Config defines the octree tunables. The node record layout depends on
// MaxContents so both values are fixed for the lifetime of an Octree.
type Config struct {
	// The number of extents a leaf can hold before being split.
	MaxContents int

	// The depth at which leaves stop splitting and accept any number of
	// extents.
	MaxDepth int
}

// Get the default octree configuration.
func DefaultConfig() Config {
	return Config{
		MaxContents: DefaultMaxContents,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Validate the configuration.
func (c Config) Validate() error {
	if c.MaxContents < 1 {
		return fmt.Errorf("octree: MaxContents must be at least 1; got %d", c.MaxContents)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("octree: MaxDepth must not be negative; got %d", c.MaxDepth)
	}
	return nil
}

// NodeFields returns the width of an octree node record for this config.
func (c Config) NodeFields() int {
	return nodeContentsOffset + c.MaxContents
}
