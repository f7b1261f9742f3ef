package ports

import (
	"context"
	"time"
)

// IdempotencyStore remembers the response returned for an Idempotency-Key.
type IdempotencyStore interface {
	// Lookup returns the stored payload; found is false for unknown keys.
	Lookup(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Remember stores payload under key for ttl. An existing key is left as is.
	Remember(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
