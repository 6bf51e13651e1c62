package bootstrap

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

// Config is the environment read by the bootstrap.
type Config struct {
	// Environ names the execution environment. Only the inert DEBUG
	// suppression looks at it.
	Environ string `env:"RACK_ENVIRON"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}
	return &cfg, nil
}
