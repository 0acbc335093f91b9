package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/perfpredict/internal/backend"
	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/envvar"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() backend.BackendProvider {
	return m.Called().Get(0).(backend.BackendProvider)
}

func (m *MockBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*backend.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	return m.Called().Error(0)
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	t.Setenv(envvar.PerfpredictModelPath, "")

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stub": true}`), 0o644))

	return path
}

func TestManager_LoadOnce(t *testing.T) {
	path := writeArtifact(t)
	mb := new(MockBackend)
	mb.On("Provider").Return(backend.BackendProviderForest)

	var opened int
	m := NewManagerWithOpener(backend.NewRegistry(), func(cfg config.ModelConfig, p string) (backend.Backend, error) {
		opened++
		assert.Equal(t, path, p)
		return mb, nil
	})

	_, err := m.Instance()
	assert.ErrorIs(t, err, ErrNotLoaded)

	instance, err := m.Load(context.Background(), config.ModelConfig{Backend: config.BackendTypeForest, Path: path})
	require.NoError(t, err)
	assert.Equal(t, ModelStatusLoaded, instance.Status)
	assert.Equal(t, backend.BackendProviderForest, instance.Provider)
	assert.Equal(t, path, instance.Path)
	assert.Len(t, instance.Digest, 64)
	assert.NotEmpty(t, instance.ID)

	_, err = m.Load(context.Background(), config.ModelConfig{Backend: config.BackendTypeForest, Path: path})
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
	assert.Equal(t, 1, opened)

	got, ok := m.Registry().Get(backend.BackendProviderForest)
	require.True(t, ok)
	assert.Same(t, mb, got)

	again, err := m.Instance()
	require.NoError(t, err)
	assert.Equal(t, instance.ID, again.ID)
}

func TestManager_LoadMissingArtifact(t *testing.T) {
	t.Setenv(envvar.PerfpredictModelPath, "")
	m := NewManagerWithOpener(backend.NewRegistry(), func(config.ModelConfig, string) (backend.Backend, error) {
		t.Fatal("opener must not run for a missing artifact")
		return nil, nil
	})

	_, err := m.Load(context.Background(), config.ModelConfig{Path: filepath.Join(t.TempDir(), "RF_model.json")})
	assert.ErrorIs(t, err, ErrArtifactMissing)

	_, err = m.Instance()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestManager_LoadOpenerFailure(t *testing.T) {
	m := NewManagerWithOpener(backend.NewRegistry(), func(config.ModelConfig, string) (backend.Backend, error) {
		return nil, errors.New("corrupt artifact")
	})

	_, err := m.Load(context.Background(), config.ModelConfig{Path: writeArtifact(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt artifact")
}

func TestManager_LoadWithRealForest(t *testing.T) {
	t.Setenv(envvar.PerfpredictModelPath, "")
	m := NewManager(backend.NewRegistry())

	instance, err := m.Load(context.Background(), config.ModelConfig{
		Backend: config.BackendTypeForest,
		Path:    filepath.Join("..", "backend", "forest", "testdata", "forest.yaml"),
	})
	require.NoError(t, err)
	require.Len(t, instance.Features, 15)
	assert.Equal(t, "YearsSinceLastPromotion", instance.Features[14])
}

func TestManager_LoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager(backend.NewRegistry()).Load(ctx, config.ModelConfig{Path: writeArtifact(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(envvar.PerfpredictModelPath, "")
	assert.Equal(t, "/srv/rf.json", ResolvePath(config.ModelConfig{Path: "/srv/rf.json"}))
	assert.Equal(t,
		filepath.Join(config.DefaultModelsPath(), config.DefaultModelFilename),
		ResolvePath(config.ModelConfig{}))

	t.Setenv(envvar.PerfpredictModelPath, "/override/rf.json")
	assert.Equal(t, "/override/rf.json", ResolvePath(config.ModelConfig{Path: "/srv/rf.json"}))
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend(config.ModelConfig{Backend: "onnx"}, "/tmp/x")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = OpenBackend(config.ModelConfig{Backend: config.BackendTypeCommand}, "/tmp/x")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
