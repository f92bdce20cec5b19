// Package cache provides pluggable byte caching for the floorplan
// pipeline.
//
// The pipeline caches at three levels, each keyed by a hash of its
// inputs so that any change upstream invalidates everything downstream:
//
//   - design: the normalized design document, keyed by name
//   - layout: the sized and flattened geometry, keyed by the design
//     hash plus solver options
//   - artifact: rendered output bytes, keyed by the layout hash plus
//     render options
//
// Three backends are provided: [FileCache] for CLI usage, [RedisCache]
// for server deployments, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cache level. Designs change rarely and are cheap to
// store; layouts and artifacts are recomputed on any upstream change, so
// a day is plenty.
const (
	TTLDesign   = 7 * 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
//
// Implementations must be safe for concurrent use. A TTL of 0 means the
// entry never expires.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the solver options that shape a computed layout.
// Two layouts with different options must never share a cache entry.
type LayoutKeyOpts struct {
	Tech      string `json:"tech"`
	Compacted bool   `json:"compacted"`
	Optimized bool   `json:"optimized"`
}

// ArtifactKeyOpts are the render options that shape an output artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
	Labels  bool    `json:"labels"`
	Markers bool    `json:"markers"`
}

// Keyer builds cache keys for the pipeline's cache levels.
type Keyer interface {
	// DesignKey generates a key for a named design document.
	DesignKey(name string) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(designHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a readable prefix per level
// plus a SHA-256 hash of the identifying inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DesignKey generates a key for a named design document.
func (k *DefaultKeyer) DesignKey(name string) string {
	return "design:" + name
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(designHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", designHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
