// Package cache stores laced graphs so that repeated runs over unchanged
// inputs can skip loading and lacing.
//
// Entries are opaque byte slices addressed by string keys. Keys are built by
// a [Keyer] from the content digests of the input blocks ([FileDigest]) and
// the options that influence the output, so any change to an input file or
// its position in the input list produces a different key.
//
// Two implementations are provided: [FileCache] keeps entries as files in a
// directory, and [NullCache] stores nothing and is used when caching is
// disabled.
package cache

import (
	"context"
	"time"
)

// FormatVersion is mixed into every lace key. Bump it whenever the output of
// lacing or the layout of stored entries changes for the same inputs.
const FormatVersion = 2

// TTLLace bounds how long a laced graph stays on disk. Keys are content
// addressed, so the TTL only limits cache growth.
const TTLLace = 30 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// LaceKeyOpts holds the options that change a laced graph for the same
// inputs.
type LaceKeyOpts struct {
	// Digests are the content digests of the input blocks, in input order.
	Digests []string
}

// Keyer builds cache keys.
type Keyer interface {
	// LaceKey returns the key of the laced graph for the given inputs.
	LaceKey(opts LaceKeyOpts) string
}

// DefaultKeyer builds keys of the form "lace:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LaceKey hashes the format version with the ordered input digests.
func (DefaultKeyer) LaceKey(opts LaceKeyOpts) string {
	return hashKey("lace", FormatVersion, opts.Digests)
}
