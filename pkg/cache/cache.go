// Package cache provides content-addressed caching for the compute, geometry
// and render stages of the pipeline. Backends: file (CLI default), Redis
// (server deployments) and null (caching disabled).
//
// Keys are derived from the full input content via SHA-256, so a cache entry
// can never serve stale output for changed inputs; TTLs exist only to bound
// disk and memory growth.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal store the pipeline needs.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores bytes under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// TTLs per artifact class. Content-hashed keys make these a growth bound,
// not a correctness mechanism.
const (
	// ComputeTTL covers calculator results and rankings.
	ComputeTTL = 24 * time.Hour

	// GeometryTTL covers chart geometry derived from compute results.
	GeometryTTL = 7 * 24 * time.Hour

	// ArtifactTTL covers rendered SVG/JSON artifacts.
	ArtifactTTL = 30 * 24 * time.Hour
)
