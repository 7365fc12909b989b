package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/ghaggin/erp-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDrivers(t *testing.T) map[string]Storage {
	t.Helper()
	require := require.New(t)
	log := zaptest.NewLogger(t)

	file, err := NewFile(filepath.Join(t.TempDir(), "store.json"), log)
	require.NoError(err)

	mr := miniredis.RunT(t)
	rds, err := NewRedis(config.RedisStorage{Addr: mr.Addr()})
	require.NoError(err)

	db, err := gorm.Open(sqlite.Open("file:storage_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(err)
	sql, err := NewSQLiteWithDB(db)
	require.NoError(err)

	drivers := map[string]Storage{
		DriverMemory: NewMemory(),
		DriverFile:   file,
		DriverRedis:  rds,
		DriverSQLite: sql,
	}
	t.Cleanup(func() {
		for _, s := range drivers {
			_ = s.Close(context.Background())
		}
	})
	return drivers
}

func TestStorageDrivers(t *testing.T) {
	ctx := context.Background()

	for name, s := range newDrivers(t) {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			_, err := s.Get(ctx, "token")
			assert.ErrorIs(err, ErrNotFound)

			require.NoError(s.SetMany(ctx, map[string]string{
				"token": "abc",
				"user":  `{"username":"admin"}`,
			}))

			v, err := s.Get(ctx, "token")
			require.NoError(err)
			assert.Equal("abc", v)

			require.NoError(s.SetMany(ctx, map[string]string{"token": "def"}))
			v, err = s.Get(ctx, "token")
			require.NoError(err)
			assert.Equal("def", v)

			v, err = s.Get(ctx, "user")
			require.NoError(err)
			assert.Equal(`{"username":"admin"}`, v)

			require.NoError(s.Delete(ctx, "token", "user"))
			require.NoError(s.Delete(ctx, "token", "user"))

			_, err = s.Get(ctx, "token")
			assert.ErrorIs(err, ErrNotFound)
			_, err = s.Get(ctx, "user")
			assert.ErrorIs(err, ErrNotFound)
		})
	}
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := NewFile(path, log)
	require.NoError(err)
	require.NoError(s.SetMany(ctx, map[string]string{"token": "abc"}))

	reopened, err := NewFile(path, log)
	require.NoError(err)
	v, err := reopened.Get(ctx, "token")
	require.NoError(err)
	require.Equal("abc", v)
}

func TestFileStorage_CorruptFileReadsEmpty(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFile(path, zaptest.NewLogger(t))
	require.NoError(err)

	_, err = s.Get(ctx, "token")
	require.ErrorIs(err, ErrNotFound)

	require.NoError(s.SetMany(ctx, map[string]string{"token": "abc"}))
	b, err := os.ReadFile(path)
	require.NoError(err)
	require.Contains(string(b), `"token": "abc"`)
}

func TestRedisStorage_Prefix(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	s, err := NewRedis(config.RedisStorage{Addr: mr.Addr(), Prefix: "test:"})
	require.NoError(err)
	defer s.Close(ctx)

	require.NoError(s.SetMany(ctx, map[string]string{"token": "abc"}))
	v, err := mr.Get("test:token")
	require.NoError(err)
	require.Equal("abc", v)
}

func TestNew(t *testing.T) {
	require := require.New(t)
	log := zaptest.NewLogger(t)

	s, err := New(config.Storage{Driver: DriverMemory}, log)
	require.NoError(err)
	require.NotNil(s)

	_, err = New(config.Storage{Driver: "etcd"}, log)
	require.Error(err)

	_, err = New(config.Storage{Driver: DriverRedis}, log)
	require.Error(err)
}
