package config

import "fmt"

// RedisConfig holds the optional redis connection used for assignment locks.
type RedisConfig struct {
	// Addr is host:port; empty disables redis.
	Addr     string
	Password string
	DB       int
}

// LoadRedisConfigFromEnv reads the REDIS_* variables.
func LoadRedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		Addr:     GetEnv("REDIS_ADDR", ""),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	}
}

// Enabled reports whether a redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Validate rejects a negative database index.
func (c RedisConfig) Validate() error {
	if c.DB < 0 {
		return fmt.Errorf("redis db must be non-negative, got %d", c.DB)
	}
	return nil
}
