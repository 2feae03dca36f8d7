package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by the server.
const EnvPrefix = "CARDTRACK_"

// parseEnv loads dotenvPath (if it exists) into the process environment
// without overriding variables that are already set, then overlays every
// CARDTRACK_* variable onto config. A non-nil environment replaces the
// process environment, which keeps tests hermetic.
func parseEnv(config *Config, dotenvPath string, environment map[string]string) error {
	if environment == nil && dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	return env.ParseWithOptions(config, opts)
}
