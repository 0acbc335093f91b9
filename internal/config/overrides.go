package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ekisa-team/perfpredict/internal/envvar"
)

// Overrides holds listener ports given on the command line. Zero means unset.
type Overrides struct {
	HTTPPort int
	GRPCPort int
}

// ApplyOverrides sets listener ports with the precedence: flag, environment
// variable, config file. The result is validated again.
func (c *Config) ApplyOverrides(o Overrides) error {
	ports := []struct {
		port *int
		env  string
		flag int
	}{
		{&c.Server.HTTP.Port, envvar.PerfpredictServerHTTPPort, o.HTTPPort},
		{&c.Server.GRPC.Port, envvar.PerfpredictServerGRPCPort, o.GRPCPort},
	}

	for _, p := range ports {
		if p.flag != 0 {
			*p.port = p.flag
			continue
		}

		s := os.Getenv(p.env)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 65535 {
			return fmt.Errorf("config: %s=%q is not a valid port", p.env, s)
		}
		*p.port = v
	}

	return c.Validate()
}
