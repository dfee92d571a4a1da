// Package cache provides a small byte cache used for fetched datasets and
// rendered snapshots.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries under the user cache directory (CLI default)
//   - [RedisCache] shares entries between server instances
//   - [NullCache] disables caching
//
// Keys are built by a [Keyer] so that callers never hand-assemble them.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	// DatasetTTL bounds how long a fetched remote dataset is reused.
	DatasetTTL = 24 * time.Hour

	// SnapshotTTL bounds how long a rendered SVG snapshot is reused.
	SnapshotTTL = time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a fetched HTTP body.
	HTTPKey(namespace, key string) string

	// SnapshotKey keys a rendered snapshot of a graph in a given view state.
	SnapshotKey(graphHash string, opts SnapshotKeyOpts) string
}

// SnapshotKeyOpts are the inputs that change a rendered snapshot.
type SnapshotKeyOpts struct {
	Selection string   `json:"selection"`
	Highlight []string `json:"highlight"`
	Links     []int    `json:"links"`
	Palette   string   `json:"palette"`
}

// DefaultKeyer is the stock Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the stock Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SnapshotKey hashes the graph hash and options.
func (DefaultKeyer) SnapshotKey(graphHash string, opts SnapshotKeyOpts) string {
	return "snapshot:" + snapshotDigest(graphHash, opts)
}
