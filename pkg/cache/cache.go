// Package cache stores rendered chart artifacts between requests.
//
// A [Cache] is a byte store with optional expiration. Three backends are
// provided:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared storage for multiple server instances
//   - [NullCache]: never stores anything, used when caching is disabled
//
// Keys are produced by a [Keyer] so that every backend agrees on the layout
// of the key space. [ScopedKeyer] adds a namespace prefix on top of another
// keyer.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLRender   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey identifies a rendered chart document by its request hash.
	RenderKey(requestHash string, opts RenderKeyOpts) string

	// ArtifactKey identifies a rasterised or wrapped artifact derived from
	// an SVG document.
	ArtifactKey(svgHash string, opts ArtifactKeyOpts) string
}

// RenderKeyOpts holds the render settings that change the produced SVG.
type RenderKeyOpts struct {
	Orientation string  `json:"orientation"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Animated    bool    `json:"animated"`
	Version     string  `json:"version,omitempty"`
}

// ArtifactKeyOpts holds the export settings of a derived artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Engine string  `json:"engine,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(requestHash string, opts RenderKeyOpts) string {
	return hashKey("render", requestHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(svgHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", svgHash, opts)
}
