// Package storage provides the durable key-value area that backs the
// console's token store. Drivers: memory, file, redis and sqlite.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghaggin/erp-console/internal/config"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("key not found")
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Storage interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// SetMany writes every pair or none of them.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes the keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close(ctx context.Context) error
}

// New opens the storage selected by cfg.Driver.
func New(cfg config.Storage, log *zap.Logger) (Storage, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	log.Info("opening storage", zap.String("driver", driver))

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.File.Path, log)
	case DriverRedis:
		return NewRedis(cfg.Redis)
	case DriverSQLite:
		return NewSQLite(cfg.SQLite.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
