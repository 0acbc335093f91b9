package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekisa-team/perfpredict/internal/backend"
	"github.com/ekisa-team/perfpredict/internal/backend/command"
	"github.com/ekisa-team/perfpredict/internal/backend/forest"
	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/envvar"
	"github.com/ekisa-team/perfpredict/internal/xfs"
)

// Opener constructs the inference backend for a resolved artifact path.
type Opener func(cfg config.ModelConfig, path string) (backend.Backend, error)

// Manager owns the model lifecycle: the artifact is resolved and opened once
// before serving and is read-only for the rest of the process.
type Manager struct {
	registry *backend.Registry
	opener   Opener
	instance *Instance
	mu       sync.RWMutex
}

// NewManager creates a Manager that registers the opened backend in registry.
func NewManager(registry *backend.Registry) *Manager {
	return NewManagerWithOpener(registry, OpenBackend)
}

// NewManagerWithOpener creates a Manager with a custom backend opener.
func NewManagerWithOpener(registry *backend.Registry, opener Opener) *Manager {
	return &Manager{
		registry: registry,
		opener:   opener,
	}
}

// Registry returns the backend registry.
func (m *Manager) Registry() *backend.Registry {
	return m.registry
}

// Load resolves the artifact, opens its backend and registers it. It succeeds at
// most once per Manager.
func (m *Manager) Load(ctx context.Context, cfg config.ModelConfig) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instance != nil {
		return nil, ErrAlreadyLoaded
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := ResolvePath(cfg)
	if !xfs.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}

	digest, err := fileDigest(path)
	if err != nil {
		return nil, fmt.Errorf("failed to hash model artifact %s: %w", path, err)
	}

	b, err := m.opener(cfg, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model %s: %w", path, err)
	}

	if err := m.registry.Register(b); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to register backend: %w", err)
	}

	instance := &Instance{
		ID:       uuid.NewString(),
		Path:     path,
		Digest:   digest,
		Provider: b.Provider(),
		Status:   ModelStatusLoaded,
		LoadedAt: time.Now(),
	}
	if fd, ok := b.(backend.FeatureDescriber); ok {
		instance.Features = fd.FeatureNames()
	}
	m.instance = instance

	slog.Info("Model loaded",
		"model_id", instance.ID,
		"path", path,
		"provider", instance.Provider,
		"sha256", digest)

	return m.copyInstance()
}

// Instance returns a copy of the loaded instance.
func (m *Manager) Instance() (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.copyInstance()
}

func (m *Manager) copyInstance() (*Instance, error) {
	if m.instance == nil {
		return nil, ErrNotLoaded
	}

	instance := *m.instance
	instance.Features = append([]string(nil), m.instance.Features...)

	return &instance, nil
}

// ResolvePath returns the artifact path.
// Precedence:
// 1. PERFPREDICT_MODEL_PATH environment variable.
// 2. Path field in the model config.
// 3. Default models path.
func ResolvePath(cfg config.ModelConfig) string {
	if p := os.Getenv(envvar.PerfpredictModelPath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg.Path != "" {
		return xfs.ExpandTilde(cfg.Path)
	}
	return filepath.Join(config.DefaultModelsPath(), config.DefaultModelFilename)
}

// OpenBackend opens the backend named in the config.
func OpenBackend(cfg config.ModelConfig, path string) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendTypeForest, "":
		return forest.NewBackend(path)
	case config.BackendTypeCommand:
		if cfg.Command == nil {
			return nil, fmt.Errorf("%w: command backend needs a command", ErrUnknownBackend)
		}
		timeout := cfg.Command.Timeout
		if timeout == 0 {
			timeout = config.DefaultCommandTimeout
		}
		return command.NewBackend(cfg.Command.Bin, cfg.Command.Args, timeout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
