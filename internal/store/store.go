// Package store provides access to the remote/local object storage holding
// raw result payloads. Implementations share the DatasetStore interface;
// every failure surfaces as an opaque store error the pipeline treats as
// fatal for the current request, never retried here.
package store

import (
	"context"

	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

// RawPayload is one opaque serialized storage object, immutable once
// retrieved.
type RawPayload struct {
	Key  string
	Body []byte
}

// DatasetStore is the storage collaborator consumed by the pipeline.
type DatasetStore interface {
	// Fetch downloads the payload stored under key.
	Fetch(ctx context.Context, key string) (RawPayload, error)
	// List returns the stored keys matching the prefix, ordered.
	List(ctx context.Context, prefix string) ([]string, error)
	// Put uploads a payload under key, overwriting any existing object.
	Put(ctx context.Context, key string, body []byte) error
	// Close releases the underlying resources.
	Close() error
}

// Driver selects a DatasetStore implementation.
type Driver string

const (
	DriverFilesystem Driver = "filesystem"
	DriverDuckDB     Driver = "duckdb"
)

// Config holds the settings for opening a store.
type Config struct {
	Driver Driver
	// Path is the payload directory for the filesystem driver, or the
	// database file for the duckdb driver.
	Path string
}

// New opens a DatasetStore for the configured driver.
func New(cfg Config, log *logger.Logger) (DatasetStore, error) {
	switch cfg.Driver {
	case DriverFilesystem:
		return NewFilesystemStore(cfg.Path, log)
	case DriverDuckDB:
		return NewDuckDBStore(cfg.Path, log)
	default:
		return nil, errors.Newf(errors.ErrCodeStoreUnavailable, "unsupported store driver %q", cfg.Driver).WithDetail(string(cfg.Driver))
	}
}
