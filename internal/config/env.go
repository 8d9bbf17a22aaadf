// Package config loads service configuration from the environment and the
// matching tunables from a watched file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv reads an environment variable with a default fallback.
func GetEnv(key, defaultValue string) string {
	return getEnvAs(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// GetEnvInt reads an integer environment variable. Unparsable values fall back
// to the default.
func GetEnvInt(key string, defaultValue int) int {
	return getEnvAs(key, defaultValue, strconv.Atoi)
}

// GetEnvFloat reads a float environment variable.
func GetEnvFloat(key string, defaultValue float64) float64 {
	return getEnvAs(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvDuration reads a time.ParseDuration formatted variable.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvAs(key, defaultValue, time.ParseDuration)
}

// GetEnvBool reads a boolean in any form strconv.ParseBool accepts.
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnvAs(key, defaultValue, strconv.ParseBool)
}

func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// oneOf returns an error naming the allowed values when v is not among them.
func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %q (must be one of %s)", name, v, strings.Join(allowed, ", "))
}
