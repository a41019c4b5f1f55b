// Package store persists the client's single durable record: the current
// session. It is a small key/value table in a local sqlite database so the
// principal survives a process restart but not an explicit logout.
package store

import "context"

// Repository is the key/value surface backing the session store.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
