package storage

import (
	"context"
	"fmt"

	"github.com/yourname/devtrack/internal"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

func NewFileRepositories(dataFile string, logger internal.Logger) (Store, error) {
	storage, err := NewFileStorage(dataFile, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// NewPostgresRepositories connects and applies the schema before returning.
func NewPostgresRepositories(ctx context.Context, dsn string, logger internal.Logger) (Store, error) {
	storage, err := NewPostgresStorage(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Close()
		return nil, err
	}
	return storage, nil
}

// Open selects a backend by name.
func Open(ctx context.Context, backend, dsn, dataFile string, logger internal.Logger) (Store, error) {
	switch backend {
	case BackendPostgres:
		return NewPostgresRepositories(ctx, dsn, logger)
	case BackendFile:
		return NewFileRepositories(dataFile, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
