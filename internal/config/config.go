// Package config resolves runtime options from RESMON_* environment
// variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/resmon/internal/errors"
	"github.com/Dicklesworthstone/resmon/internal/logger"
)

// EnvPrefix is prepended to every key, e.g. RESMON_INTERVAL.
const EnvPrefix = "RESMON"

// Refresh interval bounds.
const (
	DefaultInterval = 250 * time.Millisecond
	MinInterval     = 200 * time.Millisecond
	MaxInterval     = 400 * time.Millisecond
)

// Keys
const (
	KeyInterval = "interval"
	KeyLogFile  = "log_file"
	KeyDebug    = "debug"
)

// Config carries runtime options for resmon.
type Config struct {
	Interval time.Duration
	LogFile  string
	Debug    bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Interval: DefaultInterval,
		LogFile:  logger.DefaultFile,
		Debug:    false,
	}
}

// New returns a viper instance bound to the environment with defaults set.
func New() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyInterval, d.Interval.String())
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyDebug, d.Debug)
	return v
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return FromViper(New())
}

// FromViper builds a Config from v. The interval accepts Go durations
// ("300ms") or a bare number of milliseconds and is clamped to
// [MinInterval, MaxInterval].
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Default()

	if raw := strings.TrimSpace(v.GetString(KeyInterval)); raw != "" {
		d, err := parseInterval(raw)
		if err != nil {
			return cfg, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid refresh interval: "+raw,
				"Set RESMON_INTERVAL to a duration such as 250ms, or unset it")
		}
		cfg.Interval = ClampInterval(d)
	}

	cfg.LogFile = strings.TrimSpace(v.GetString(KeyLogFile))
	cfg.Debug = v.GetBool(KeyDebug)
	return cfg, nil
}

func parseInterval(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err == nil {
		return d, nil
	}
	if ms, err2 := time.ParseDuration(raw + "ms"); err2 == nil {
		return ms, nil
	}
	return 0, err
}

// ClampInterval bounds d to the supported refresh range.
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}
