package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/pkg/errors"
	"go.uber.org/zap"
)

// FilesystemStore keeps payload documents as files under a root directory;
// keys are slash-separated paths relative to the root.
type FilesystemStore struct {
	root   string
	logger *logger.Logger
}

// NewFilesystemStore opens a filesystem-backed store rooted at root.
func NewFilesystemStore(root string, log *logger.Logger) (*FilesystemStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreUnavailable, err, "store root %q is not accessible", root)
	}

	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeStoreUnavailable, "store root %q is not a directory", root)
	}

	return &FilesystemStore{root: root, logger: log}, nil
}

// Fetch implements DatasetStore.
func (s *FilesystemStore) Fetch(ctx context.Context, key string) (RawPayload, error) {
	if err := ctx.Err(); err != nil {
		return RawPayload{}, errors.Wrap(errors.ErrCodeStoreFetchFailed, "fetch canceled", err)
	}

	path, err := s.resolve(key)
	if err != nil {
		return RawPayload{}, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RawPayload{}, errors.Wrapf(errors.ErrCodeStoreNotFound, err, "no payload stored under %q", key)
		}

		return RawPayload{}, errors.Wrapf(errors.ErrCodeStoreFetchFailed, err, "failed to read payload %q", key)
	}

	s.logger.Debug("fetched payload", zap.String("key", key), zap.Int("bytes", len(body)))

	return RawPayload{Key: key, Body: body}, nil
}

// List implements DatasetStore.
func (s *FilesystemStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreListFailed, "list canceled", err)
	}

	keys := make([]string, 0)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreListFailed, err, "failed to list payloads under %q", prefix)
	}

	sort.Strings(keys)

	return keys, nil
}

// Put implements DatasetStore.
func (s *FilesystemStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorePutFailed, "put canceled", err)
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeStorePutFailed, err, "failed to create directory for %q", key)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeStorePutFailed, err, "failed to write payload %q", key)
	}

	s.logger.Debug("stored payload", zap.String("key", key), zap.Int("bytes", len(body)))

	return nil
}

// Close implements DatasetStore.
func (s *FilesystemStore) Close() error {
	return nil
}

// resolve maps a key to an absolute path, rejecting escapes from the root.
func (s *FilesystemStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", errors.Newf(errors.ErrCodeStoreFetchFailed, "invalid payload key %q", key).WithDetail(key)
	}

	return filepath.Join(s.root, cleaned), nil
}
