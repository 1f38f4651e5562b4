package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)

	want := config.Default()
	assert.Equal(t, want.Log, cfg.Log)
	assert.Equal(t, 400*time.Millisecond, cfg.Playback.Delay)
	assert.Equal(t, config.BackendFile, cfg.Store.Backend)
	assert.Equal(t, 32, cfg.Input.MaxSize)
	assert.Empty(t, cfg.File)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stepwise.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log:
  level: debug
playback:
  delay: 250ms
store:
  backend: sqlite
  path: /tmp/s.db
`), 0644))

	t.Setenv("STEPWISE_LOG_FORMAT", "json")
	t.Setenv("STEPWISE_PLAYBACK_DELAY", "1s")

	cfg, err := config.Load(config.NewViper(), file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "env sets keys the file leaves out")
	assert.Equal(t, time.Second, cfg.Playback.Delay, "env beats the file")
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, file, cfg.File)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("stepwise.yaml", []byte("cache:\n  size: 7\n"), 0644))

	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Cache.Size)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := map[string]string{
		"STEPWISE_STORE_BACKEND":  "postgres",
		"STEPWISE_LOG_FORMAT":     "xml",
		"STEPWISE_PLAYBACK_DELAY": "1m",
		"STEPWISE_INPUT_MAX_SIZE": "100",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load(config.NewViper(), "")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_YAML(t *testing.T) {
	out, err := config.Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "delay: 400ms")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Contains(t, back, "store")
}
