package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
version: "1"
server:
  http:
    port: 8080
  grpc:
    port: 9090
model:
  backend: forest
  path: ~/models/performance_forest.json
logging:
  level: debug
  to_file: true
  file: logs/test.log
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAndValidate_Valid(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, validYAML), "")
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 9090, cfg.Server.GRPC.Port)
	assert.Equal(t, BackendTypeForest, cfg.Model.Backend)
	assert.Equal(t, "~/models/performance_forest.json", cfg.Model.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.ToFile)
}

func TestLoadAndValidate_AppliesDefaults(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, "version: \"1\"\nmodel:\n  backend: forest\n"), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPPort(), cfg.Server.HTTP.Port)
	assert.Equal(t, DefaultGRPCPort(), cfg.Server.GRPC.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadAndValidate_CommandBackend(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, `
version: "1"
model:
  backend: command
  path: /srv/RF_model.pkl
  command:
    bin: /usr/bin/python3
    args: ["predict.py"]
    timeout: 3s
`), "")
	require.NoError(t, err)

	require.NotNil(t, cfg.Model.Command)
	assert.Equal(t, "/usr/bin/python3", cfg.Model.Command.Bin)
	assert.Equal(t, []string{"predict.py"}, cfg.Model.Command.Args)
	assert.Equal(t, 3*time.Second, cfg.Model.Command.Timeout)
}

func TestLoadAndValidate_CommandTimeoutDefault(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, `
version: "1"
model:
  backend: command
  command:
    bin: predictor
`), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCommandTimeout, cfg.Model.Command.Timeout)
}

func TestLoadAndValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "version: [",
			wantErr: "invalid YAML",
		},
		{
			name:    "unknown backend",
			content: "version: \"1\"\nmodel:\n  backend: pickle\n",
			wantErr: "validation failed",
		},
		{
			name:    "missing model",
			content: "version: \"1\"\n",
			wantErr: "validation failed",
		},
		{
			name:    "port out of range",
			content: "version: \"1\"\nserver:\n  http:\n    port: 70000\nmodel:\n  backend: forest\n",
			wantErr: "validation failed",
		},
		{
			name:    "unknown field",
			content: "version: \"1\"\nmodel:\n  backend: forest\n  reload: true\n",
			wantErr: "validation failed",
		},
		{
			name:    "same ports",
			content: "version: \"1\"\nserver:\n  http:\n    port: 9000\n  grpc:\n    port: 9000\nmodel:\n  backend: forest\n",
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, tt.content), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndValidate_ExternalSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(embeddedSchema), 0o644))

	cfg, err := LoadAndValidate(writeConfig(t, validYAML), schemaPath)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendTypeForest, cfg.Model.Backend)
	assert.Equal(t, DefaultHTTPPort(), cfg.Server.HTTP.Port)
}

func TestLoadAndValidate_ExampleConfig(t *testing.T) {
	cfg, err := LoadAndValidate(filepath.Join("..", "..", "configs", "config.example.yaml"), "")

	require.NoError(t, err)
	assert.Equal(t, BackendTypeForest, cfg.Model.Backend)
	assert.Equal(t, 8501, cfg.Server.HTTP.Port)
	assert.Equal(t, 9501, cfg.Server.GRPC.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Nil(t, cfg.Model.Command)
}
