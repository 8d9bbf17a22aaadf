package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Config is the process-level configuration read at startup.
type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	// Redis is optional; without it assignment runs unlocked.
	Redis   RedisConfig
	GinMode string
	// SnowflakeNode must be unique per replica.
	SnowflakeNode int
}

// LoadDotEnv exports variables from the given .env files, .env by default.
// Missing files are skipped and variables already set are left alone.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFromEnv assembles Config from the process environment.
func LoadFromEnv() Config {
	return Config{
		Server:        LoadServerConfigFromEnv(),
		Logger:        LoadLoggerConfigFromEnv(),
		Redis:         LoadRedisConfigFromEnv(),
		GinMode:       GetEnv("GIN_MODE", "release"),
		SnowflakeNode: GetEnvInt("SNOWFLAKE_NODE", 1),
	}
}

// Validate checks every section and reports the first failure.
func (c Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"logger", c.Logger.Validate},
		{"redis", c.Redis.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s config: %w", s.name, err)
		}
	}

	if err := oneOf("GIN_MODE", c.GinMode, "debug", "release", "test"); err != nil {
		return err
	}
	// snowflake reserves 10 bits for the node
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return fmt.Errorf("invalid SNOWFLAKE_NODE: %d (must be 0-1023)", c.SnowflakeNode)
	}
	return nil
}
