package port

import "context"

type SnapshotStore interface {
	// Load returns the raw snapshot stored under key; ok is false if nothing is stored
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Save replaces the snapshot stored under key
	Save(ctx context.Context, key string, data []byte) error
}
