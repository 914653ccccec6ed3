package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*actor.Actor) {}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: console
mailbox:
  kind: mpsc
backoff:
  variant: on_stop
  min: 250ms
  max: 30s
  reset: manual
`), 0o600))

	t.Setenv("BACKOFF_BACKOFF_MAX", "1m")
	t.Setenv("BACKOFF_BACKOFF_RANDOM_FACTOR", "0.5")
	t.Setenv("BACKOFF_METRICS_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "mpsc", cfg.Mailbox.Kind)
	assert.Equal(t, uint64(1024), cfg.Mailbox.Capacity)
	assert.Equal(t, VariantOnStop, cfg.Backoff.Variant)
	assert.Equal(t, 250*time.Millisecond, cfg.Backoff.Min)
	// env wins over the file
	assert.Equal(t, time.Minute, cfg.Backoff.Max)
	assert.Equal(t, 0.5, cfg.Backoff.RandomFactor)
	assert.Equal(t, ResetManual, cfg.Backoff.Reset)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"log format", "BACKOFF_LOG_FORMAT", "xml"},
		{"mailbox kind", "BACKOFF_MAILBOX_KIND", "channel"},
		{"variant", "BACKOFF_BACKOFF_VARIANT", "always"},
		{"reset", "BACKOFF_BACKOFF_RESET", "never"},
		{"random factor", "BACKOFF_BACKOFF_RANDOM_FACTOR", "2"},
		{"min backoff", "BACKOFF_BACKOFF_MIN", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBackoffOptions(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backoff.ResetAfter = time.Second

	opts, err := cfg.BackoffOptions(noop, "worker")
	require.NoError(t, err)
	assert.Equal(t, "worker", opts.ChildName)
	assert.Equal(t, backoff.AutoReset{ResetBackoff: time.Second}, opts.Reset)
	assert.Equal(t, 100*time.Millisecond, opts.MinBackoff)

	cfg.Backoff.Reset = ResetManual
	cfg.Backoff.Min = 20 * time.Second
	_, err = cfg.BackoffOptions(noop, "worker")
	assert.ErrorIs(t, err, backoff.ErrInvalidOptions)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "log.level", envTransformFunc("BACKOFF_LOG_LEVEL"))
	assert.Equal(t, "backoff.random_factor", envTransformFunc("BACKOFF_BACKOFF_RANDOM_FACTOR"))
	assert.Equal(t, "mailbox.capacity", envTransformFunc("BACKOFF_MAILBOX_CAPACITY"))
}
