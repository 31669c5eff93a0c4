package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ApplyConfigFile reads a yaml, json, toml or .env file and exports its keys as ENV variables,
// so DefaultServiceConfigFromEnv picks them up. Nested keys are joined with "_" and upper cased,
// "chain: {rpc_url: ...}" becomes CHAIN_RPC_URL.
// ENV variables that are already set win over the file unless override is true.
func ApplyConfigFile(path string, override bool, setEnvFn EnvSetter, lookupEnvFn func(string) (string, bool)) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %q", path)
	}

	applied := 0
	for _, key := range v.AllKeys() {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, exists := lookupEnvFn(envKey); exists && !override {
			continue
		}

		if err := setEnvFn(envKey, v.GetString(key)); err != nil {
			return errors.Wrapf(err, "failed to set %s", envKey)
		}
		applied++
	}

	log.Debug().Str("path", path).Int("applied", applied).Msg("Applied config file")

	return nil
}
