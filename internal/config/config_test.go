package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                             DefaultBaseURL,
		"http://localhost:8081":        "http://localhost:8081/api",
		"http://localhost:8081/api":    "http://localhost:8081/api",
		"http://localhost:8081/api///": "http://localhost:8081/api",
		" https://erp.example.com/ ":   "https://erp.example.com/api",
		"https://erp.example.com/v1":   "https://erp.example.com/v1/api",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeBaseURL(in), "input %q", in)
	}
}

func TestNew_Defaults(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	t.Chdir(t.TempDir())

	cfg, err := New("")
	require.NoError(err)
	assert.Equal(8123, cfg.Console.Port)
	assert.Equal("/login", cfg.Console.LoginPath)
	assert.Equal(DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal("file", cfg.Storage.Driver)
	assert.Zero(cfg.API.Timeout)
}

func TestNew_FileThenEnv(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(os.WriteFile(path, []byte(`
console:
  port: 9000
api:
  baseURL: https://erp.example.com/
  timeout: 15s
storage:
  driver: redis
  redis:
    addr: localhost:6379
`), 0o600))

	t.Setenv("ERP_CONSOLE_PORT", "9100")

	cfg, err := New(Path(path))
	require.NoError(err)
	assert.Equal(9100, cfg.Console.Port)
	assert.Equal("https://erp.example.com/api", cfg.API.BaseURL)
	assert.Equal(15*time.Second, cfg.API.Timeout)
	assert.Equal("redis", cfg.Storage.Driver)
	assert.Equal("localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal("erp-console:", cfg.Storage.Redis.Prefix)
}

func TestNew_DotEnv(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(os.WriteFile(filepath.Join(dir, ".env"), []byte("ERP_API_BASE_URL=http://erp.local:9999\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ERP_API_BASE_URL") })

	cfg, err := New("")
	require.NoError(err)
	require.Equal("http://erp.local:9999/api", cfg.API.BaseURL)
}

func TestNew_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ERP_CONSOLE_PORT", "eighty")

	_, err := New("")
	require.Error(t, err)
}

func TestNew_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := New("does-not-exist.yaml")
	require.Error(t, err)
}
