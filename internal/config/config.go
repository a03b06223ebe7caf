// Package config resolves the interpreter's small set of ambient
// settings (color output, trace logging) from the environment, the way
// the corpus's tooling is expected to per its go.mod (env v6 is listed
// but unused in the retrieved teacher files; this module gives it a job)
// with explicit CLI flags always taking precedence over the environment.
package config

import "github.com/caarlos0/env/v6"

// Config holds settings sourced from the environment; maincmd overlays
// explicit flags on top of whatever this returns.
type Config struct {
	Color bool `env:"ASTRA_COLOR" envDefault:"true"`
	Trace bool `env:"ASTRA_TRACE" envDefault:"false"`
}

// Load reads Config from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
