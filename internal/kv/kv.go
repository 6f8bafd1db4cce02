package kv

import "context"

// Store is the key-value contract the records core runs against. Backends
// must provide per-key atomicity for SetNX; everything else is plain
// get/set/delete.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
