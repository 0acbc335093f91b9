package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/perfpredict/internal/envvar"
)

// Environment is the runtime environment the process runs in.
type Environment string

const (
	// Development enables human readable, colored logs.
	Development Environment = "development"

	// Production enables JSON logs.
	Production Environment = "production"

	// Test is used by test suites.
	Test Environment = "test"
)

// FromEnv reads the environment from PERFPREDICT_ENV. Unknown or empty values
// fall back to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.PerfpredictEnv))
}

// Parse converts a raw string into an Environment.
func Parse(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Production, "prod":
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}
