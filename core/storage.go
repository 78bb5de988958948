package core

import "context"

// Storage is the minimal key/value persistence abstraction backing the
// history cache snapshots and the proactive address book. Backend failures
// are passed through unmodified; no retry logic lives at this layer.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
