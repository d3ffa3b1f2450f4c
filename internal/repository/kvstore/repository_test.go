package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tanksounding/internal/config"
)

func newTestRepository(t *testing.T) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	repo, err := NewRepository(context.Background(), config.RedisConfig{Addr: mr.Addr()}, "vessel_sounding_records")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	return repo, mr
}

func TestRepository_ReadMissingKey(t *testing.T) {
	repo, _ := newTestRepository(t)

	data, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRepository_WriteRead(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, []byte(`[{"id":42}]`)))

	data, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":42}]`, string(data))

	stored, err := mr.Get("vessel_sounding_records")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":42}]`, stored)
}

func TestRepository_ReadFailure(t *testing.T) {
	repo, mr := newTestRepository(t)
	mr.Close()

	_, err := repo.Read(context.Background())
	assert.Error(t, err)
}

func TestNewRepository_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRepository(context.Background(), config.RedisConfig{Addr: addr}, "k")
	assert.Error(t, err)
}
