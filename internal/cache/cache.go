// Package cache stores rendered thumbnails keyed by the hash of the document
// they were rasterized from. Rasterization is deterministic, so an entry never
// goes stale; TTLs only bound memory.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ThumbnailCache stores PNG thumbnails.
type ThumbnailCache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key returns the cache key of a thumbnail of pdf at width×height.
func Key(pdf []byte, width, height int) string {
	sum := sha256.Sum256(pdf)
	return KeyForHash(hex.EncodeToString(sum[:]), width, height)
}

// KeyForHash is Key for a document whose hex SHA-256 is already known.
func KeyForHash(contentHash string, width, height int) string {
	return fmt.Sprintf("thumb:%s:%dx%d", contentHash, width, height)
}
