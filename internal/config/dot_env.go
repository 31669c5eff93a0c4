package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type EnvSetter func(k string, v string) error

// DotEnvTryLoad forcefully overrides ENV variables through **a maybe available** .env file.
//
// This function always silently ignores a missing .env file, everything else is logged.
// Use it during development, never rely on it in production.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn EnvSetter) {
	err := DotEnvLoad(absolutePathToEnvFile, setEnvFn)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", absolutePathToEnvFile).Msg("Failed to apply .env file")
	}
}

// DotEnvLoad forcefully overrides ENV variables through the supplied .env file.
func DotEnvLoad(absolutePathToEnvFile string, setEnvFn EnvSetter) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return err
	}

	for key, value := range envs {
		if err := setEnvFn(key, value); err != nil {
			return err
		}
	}

	log.Debug().Str("path", absolutePathToEnvFile).Int("count", len(envs)).Msg("Applied .env file")

	return nil
}
