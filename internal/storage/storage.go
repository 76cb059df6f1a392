// Package storage persists collections of records. A collection is a named
// JSON document, usually an array of records.
package storage

import "context"

type Storage interface {
	// Load returns the stored document of collection, nil when it was never saved.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save writes every collection of batch, all or nothing.
	Save(ctx context.Context, batch map[string][]byte) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
