package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, validYAML)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, "", func(cfg *Config, err error) {
		if err == nil {
			select {
			case reloaded <- cfg:
			default:
			}
		}
	})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, "debug", w.Snapshot().Logging.Level)

	updated := strings.Replace(validYAML, "level: debug", "level: warn", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "warn", cfg.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	assert.Equal(t, "warn", w.Snapshot().Logging.Level)
	assert.GreaterOrEqual(t, w.ReloadCount(), uint32(1))
}

func TestWatcher_KeepsSnapshotOnInvalidReload(t *testing.T) {
	path := writeConfig(t, validYAML)

	failed := make(chan error, 1)
	w, err := NewWatcher(path, "", func(cfg *Config, err error) {
		if err != nil {
			select {
			case failed <- err:
			default:
			}
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("version: ["), 0o644))

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "invalid YAML")
	case <-time.After(5 * time.Second):
		t.Fatal("reload failure was not reported")
	}

	assert.Equal(t, "debug", w.Snapshot().Logging.Level)
}

func TestNewWatcher_InvalidInitialConfig(t *testing.T) {
	_, err := NewWatcher(writeConfig(t, "version: ["), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load initial config")
}
