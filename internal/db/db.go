// Package db defines the byte key-value store used by the query shape cache
// and the sentinel errors its drivers return.
package db

import "context"

// Store is a cache backend: key-value access plus lifecycle.
type Store interface {
	Pinger
	KVStore
	Close() error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations. Get returns ErrKeyNotFound
// for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Driver names accepted by the cache configuration.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverBadger = "badger"
)
