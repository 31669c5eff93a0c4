package util

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsInt64(key string, defaultVal int64) int64 {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseInt(strVal, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsDuration accepts both Go duration strings ("90s", "2m") and plain
// integers, which are interpreted as seconds.
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	strVal := strings.TrimSpace(GetEnv(key, ""))
	if strVal == "" {
		return defaultVal
	}

	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}

	if val, err := strconv.Atoi(strVal); err == nil {
		return time.Duration(val) * time.Second
	}

	log.Warn().Str("key", key).Str("value", strVal).Msg("Failed to parse duration from env, using default")

	return defaultVal
}

// GetEnvAsStringArr reads ENV and returns the values split by separator.
// Empty entries are dropped and surrounding whitespace is trimmed.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")

	if len(strVal) == 0 {
		return defaultVal
	}

	sep := ","
	if len(separator) >= 1 {
		sep = separator[0]
	}

	parts := strings.Split(strVal, sep)
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}

	return res
}

// SetEnv is os.Setenv, exposed so config loaders can take it as a dependency.
func SetEnv(key string, value string) error {
	return os.Setenv(key, value)
}

// RunningInTest reports whether the current process is a "go test" binary.
func RunningInTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test")
}
