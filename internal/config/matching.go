package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MatchingConfig holds the tuning knobs of recommendation assignment and listing.
type MatchingConfig struct {
	// DailyLimit is the number of candidates generated per actor per day.
	DailyLimit int `mapstructure:"daily_limit"`
	// SelectionTimeout bounds a single candidate selection run.
	SelectionTimeout time.Duration `mapstructure:"selection_timeout"`
	// Timezone is the IANA zone that defines the calendar day boundary.
	Timezone string `mapstructure:"timezone"`
	// MaxDateOffset is the oldest day (in days back) a company may browse.
	MaxDateOffset int `mapstructure:"max_date_offset"`
	// DefaultPageSize is used when the request omits page_size.
	DefaultPageSize int `mapstructure:"default_page_size"`
	// MaxPageSize caps page_size.
	MaxPageSize int `mapstructure:"max_page_size"`
	// LockTTL is the lifetime of the per-actor assignment lock.
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// DefaultMatchingConfig returns the built-in matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DailyLimit:       3,
		SelectionTimeout: 3 * time.Second,
		Timezone:         "UTC",
		MaxDateOffset:    30,
		DefaultPageSize:  10,
		MaxPageSize:      100,
		LockTTL:          10 * time.Second,
	}
}

// Location resolves Timezone, falling back to UTC.
func (c MatchingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate validates matching configuration.
func (c MatchingConfig) Validate() error {
	if c.DailyLimit <= 0 {
		return errors.New("daily_limit must be greater than 0")
	}
	if c.SelectionTimeout <= 0 {
		return errors.New("selection_timeout must be greater than 0")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.MaxDateOffset < 0 {
		return errors.New("max_date_offset must be non-negative")
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 {
		return errors.New("page sizes must be greater than 0")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size (%d) cannot exceed max_page_size (%d)", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.LockTTL <= 0 {
		return errors.New("lock_ttl must be greater than 0")
	}
	return nil
}

// MatchingConfigHolder serves the current MatchingConfig and swaps it when
// matching.yml changes on disk.
type MatchingConfigHolder struct {
	current atomic.Value // holds MatchingConfig
}

// NewStaticMatchingConfigHolder returns a holder that never reloads.
func NewStaticMatchingConfigHolder(cfg MatchingConfig) *MatchingConfigHolder {
	h := &MatchingConfigHolder{}
	h.current.Store(cfg)
	return h
}

// NewMatchingConfigHolder reads matching.yml (optional) with MATCHING_* env
// overrides and watches the file for changes.
func NewMatchingConfigHolder(logger *zap.SugaredLogger) (*MatchingConfigHolder, error) {
	v := newMatchingViper()

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read matching config: %w", err)
		}
		found = false
	}

	cfg, err := decodeMatchingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticMatchingConfigHolder(cfg)
	if !found {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeMatchingConfig(v)
		if err != nil {
			logger.Warnw("Matching config reload ignored", "file", e.Name, "error", err)
			return
		}
		holder.current.Store(updated)
		logger.Infow("Matching config reloaded", "file", e.Name, "daily_limit", updated.DailyLimit)
	})
	v.WatchConfig()

	return holder, nil
}

// Get returns the current configuration snapshot.
func (h *MatchingConfigHolder) Get() MatchingConfig {
	return h.current.Load().(MatchingConfig)
}

func newMatchingViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("matching")
	v.SetConfigType("yml")
	if dir := GetEnv("MATCHING_CONFIG_DIR", ""); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/workmatch")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MATCHING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultMatchingConfig()
	v.SetDefault("daily_limit", d.DailyLimit)
	v.SetDefault("selection_timeout", d.SelectionTimeout)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("max_date_offset", d.MaxDateOffset)
	v.SetDefault("default_page_size", d.DefaultPageSize)
	v.SetDefault("max_page_size", d.MaxPageSize)
	v.SetDefault("lock_ttl", d.LockTTL)
	return v
}

func decodeMatchingConfig(v *viper.Viper) (MatchingConfig, error) {
	var cfg MatchingConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to decode matching config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return MatchingConfig{}, fmt.Errorf("matching config validation failed: %w", err)
	}
	return cfg, nil
}
