package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Repository stores the serialized record list in a single JSON file.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository builds a file backed repository for path.
func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// Path returns the location of the records file.
func (r *Repository) Path() string {
	return r.path
}

// Read returns the file contents, or nil when the file does not exist yet.
func (r *Repository) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read records file %s: %w", r.path, err)
	}
	return data, nil
}

// Write replaces the file contents. The data goes to a temporary file in the
// same directory first and is renamed over the target.
func (r *Repository) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("create temp records file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp records file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp records file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp records file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace records file %s: %w", r.path, err)
	}

	r.logger.Debug("records file written", zap.String("path", r.path), zap.Int("bytes", len(data)))
	return nil
}
