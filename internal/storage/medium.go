// Package storage provides the key-value persistence medium the record store
// and cart are built on, with in-memory, file and postgres drivers.
package storage

import (
	"context"
	"fmt"

	"github.com/safar/armigera-store/internal/config"
)

// Medium is a string-keyed store of serialized values.
type Medium interface {
	// Read returns the stored value; ok is false when the key is absent.
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Closer is implemented by media holding external resources.
type Closer interface {
	Close() error
}

// Open builds the medium selected by cfg.
func Open(cfg *config.Config) (Medium, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverFile:
		return NewFile(cfg.Storage.Dir)
	case config.DriverPostgres:
		db, err := NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
