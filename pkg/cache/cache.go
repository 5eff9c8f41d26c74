// Package cache stores rendered artifacts so unchanged documents are not
// rendered twice.
//
// Keys come from a [Keyer]: the document is serialized, hashed with
// [Hash], and combined with the render options. Any edit to the document
// changes the hash, so entries never need explicit invalidation.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(doc), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
//
// [FileCache] keeps entries under the user cache directory; [NullCache]
// disables caching.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/flowdeck/pkg/observability"
)

// Entry lifetimes.
const (
	// TTLArtifact keeps rendered artifacts for a week. Keys embed the
	// document hash, so stale entries are never served.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLDocument bounds how long a document fetched from a remote store
	// is reused.
	TTLDocument = 5 * time.Minute
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// keyType returns the prefix of a key, used to label hook events.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}

func reportGet(ctx context.Context, key string, hit bool) {
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
}
