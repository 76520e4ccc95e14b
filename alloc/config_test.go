package alloc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/pool"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poolkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, *c)

	a, err := NewFromConfig(c)
	require.NoError(t, err)
	require.NoError(t, a.Init(64))
	defer a.Deinit()
	assert.Equal(t, pool.BackingHeap, a.pool.Backing())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "backing: mmap\ntrace: true\nlogLevel: debug\nlogFormat: json\n")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mmap", c.Backing)
	assert.True(t, c.Trace)
	assert.False(t, c.Log)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *c)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backing: mmap\nlogLevel: warn\n")
	t.Setenv("POOLKIT_BACKING", "heap")
	t.Setenv("POOLKIT_TRACE", "true")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "heap", c.Backing)
	assert.True(t, c.Trace)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "capacity: 4096\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshaling config file")
	})
	t.Run("bad backing", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "backing: disk\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backing")
	})
	t.Run("bad env bool", func(t *testing.T) {
		t.Setenv("POOLKIT_TRACE", "sometimes")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing environment variables")
	})
	t.Run("bad level", func(t *testing.T) {
		t.Setenv("POOLKIT_LOG_LEVEL", "loud")
		_, err := LoadConfig("")
		require.Error(t, err)
	})
}

func TestNewFromConfig_Mmap(t *testing.T) {
	a, err := NewFromConfig(&Config{Backing: "mmap", LogFormat: "json"})
	require.NoError(t, err)
	require.NoError(t, a.Init(4096))
	defer a.Deinit()

	p := mustAlloc(t, a, 100)
	require.NoError(t, a.WriteAt(p, []byte("mapped"), 0))
	assert.Equal(t, "mapped", string(contents(t, a, p)[:6]))
	assert.Equal(t, pool.BackingMmap, a.pool.Backing())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, (&Config{}).Validate())
	require.Error(t, (&Config{LogFormat: "xml"}).Validate())
	_, err := NewFromConfig(&Config{Backing: "tape"})
	require.Error(t, err)
}
