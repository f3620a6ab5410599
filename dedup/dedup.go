// Package dedup suppresses repeated identical failures within a
// configurable window so a crash loop does not flood the collector.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store records failure keys and answers whether a key was already seen
// inside the suppression window. Implementations must be safe for
// concurrent use.
type Store interface {
	// Seen marks key as observed and reports whether it had already been
	// observed within the window.
	Seen(ctx context.Context, key string, window time.Duration) (bool, error)
}

// Key derives a stable suppression key from a failure's kind and message.
func Key(kind, message string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + message))
	return "failure:" + hex.EncodeToString(sum[:16])
}
