package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ReadMissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "none.json"), nil)

	data, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRepository_WriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vessel-calculator", "sounding_records.json")
	repo := NewRepository(path, nil)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, []byte(`[{"id":1}]`)))

	data, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))
	assert.Equal(t, path, repo.Path())
}

func TestRepository_WriteReplacesContents(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(filepath.Join(dir, "records.json"), nil)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, []byte(`[1,2,3]`)))
	require.NoError(t, repo.Write(ctx, []byte(`[]`)))

	data, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "records.json"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Write(ctx, []byte(`[]`)))
	_, err := repo.Read(ctx)
	assert.Error(t, err)
}
