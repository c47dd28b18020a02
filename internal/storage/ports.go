package storage

import "context"

// Ports for the local key-value store backing persisted state.
type (
	KV interface {
		// Get returns the stored value and whether the key exists.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
	}

	// BatchSetter writes several keys atomically.
	BatchSetter interface {
		SetMany(ctx context.Context, values map[string]string) error
	}
)
