package config

import (
	"errors"
	"time"
)

// BackendType names the inference backend used to run the model artifact.
type BackendType string

const (
	// BackendTypeForest evaluates a serialized random forest in-process.
	BackendTypeForest BackendType = "forest"

	// BackendTypeCommand delegates prediction to an external predictor process.
	BackendTypeCommand BackendType = "command"
)

// Config holds the main configuration for the application.
type Config struct {
	Version string        `json:"version"           yaml:"version"`
	Server  ServerConfig  `json:"server,omitempty"  yaml:"server,omitempty"`
	Model   ModelConfig   `json:"model"             yaml:"model"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ServerConfig holds listener configuration for the user-facing surfaces.
type ServerConfig struct {
	HTTP ListenerConfig `json:"http,omitempty" yaml:"http,omitempty"`
	GRPC ListenerConfig `json:"grpc,omitempty" yaml:"grpc,omitempty"`
}

// ListenerConfig holds configuration for a single listener.
type ListenerConfig struct {
	Host     string `json:"host,omitempty"     yaml:"host,omitempty"`
	Port     int    `json:"port,omitempty"     yaml:"port,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// ModelConfig describes the model artifact and how to run it.
type ModelConfig struct {
	Command *CommandConfig `json:"command,omitempty" yaml:"command,omitempty"`
	Path    string         `json:"path,omitempty"    yaml:"path,omitempty"`
	Backend BackendType    `json:"backend"           yaml:"backend"`
}

// CommandConfig configures the external predictor process.
type CommandConfig struct {
	Bin     string        `json:"bin"               yaml:"bin"`
	Args    []string      `json:"args,omitempty"    yaml:"args,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"   yaml:"level,omitempty"`
	File   string `json:"file,omitempty"    yaml:"file,omitempty"`
	ToFile bool   `json:"to_file,omitempty" yaml:"to_file,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			HTTP: ListenerConfig{Port: DefaultHTTPPort()},
			GRPC: ListenerConfig{Port: DefaultGRPCPort()},
		},
		Model: ModelConfig{
			Backend: BackendTypeForest,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.Model.Backend == BackendTypeCommand && (c.Model.Command == nil || c.Model.Command.Bin == "") {
		return errors.New("model.command.bin is required for the command backend")
	}
	if !c.Server.HTTP.Disabled && !c.Server.GRPC.Disabled && c.Server.HTTP.Port != 0 && c.Server.HTTP.Port == c.Server.GRPC.Port {
		return errors.New("server.http.port and server.grpc.port must differ")
	}

	return nil
}

// applyDefaults fills zero values with defaults.
func (c *Config) applyDefaults() {
	if c.Server.HTTP.Port == 0 {
		c.Server.HTTP.Port = DefaultHTTPPort()
	}
	if c.Server.GRPC.Port == 0 {
		c.Server.GRPC.Port = DefaultGRPCPort()
	}
	if c.Model.Backend == "" {
		c.Model.Backend = BackendTypeForest
	}
	if c.Model.Command != nil && c.Model.Command.Timeout == 0 {
		c.Model.Command.Timeout = DefaultCommandTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
