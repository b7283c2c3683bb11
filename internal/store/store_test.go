// AngelaMos | 2026
// store_test.go

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyAccessToken, "t1"))
	got, err := s.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "t1", got)

	require.NoError(t, s.Set(ctx, KeyAccessToken, "t2"))
	got, err = s.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "t2", got)

	require.NoError(t, s.Delete(ctx, KeyAccessToken))
	_, err = s.Get(ctx, KeyAccessToken)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(ctx, KeyAccessToken))
}

func TestMemStore(t *testing.T) {
	exerciseStore(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, fs)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(ctx, KeyUser, `{"id":"u-1"}`))
	require.NoError(t, fs.Set(ctx, KeyRememberMe, "true"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.Equal(t, `{"id":"u-1"}`, got)

	got, err = reopened.Get(ctx, KeyRememberMe)
	require.NoError(t, err)
	require.Equal(t, "true", got)
}

func TestFileStoreCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err, "a corrupt session file must not block startup")

	_, err = fs.Get(context.Background(), KeyUser)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorePermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	fs, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set(ctx, KeyAccessToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rs := NewRedisStoreWithClient(client)
	exerciseStore(t, rs)
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rs := NewRedisStoreWithClient(client)
	require.NoError(t, rs.Set(context.Background(), KeyAccessToken, "t1"))

	got, err := mr.Get(redisKeyPrefix + KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "t1", got)
}

func TestClearAuth(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyRememberMe} {
		require.NoError(t, s.Set(ctx, key, "x"))
	}
	require.NoError(t, s.Set(ctx, KeyPendingResetEmail, "a@b.co"))

	require.NoError(t, ClearAuth(ctx, s))

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyRememberMe} {
		_, err := s.Get(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)
	}

	// ClearAuth scopes to credentials; unrelated keys survive.
	got, err := s.Get(ctx, KeyPendingResetEmail)
	require.NoError(t, err)
	require.Equal(t, "a@b.co", got)
}
