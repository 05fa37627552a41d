package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	keyStorageDriver       = "storage.driver"
	keyStoragePath         = "storage.path"
	keySoundDir            = "sound.dir"
	keyNotificationBackend = "notifications.backend"
	keySessionCmd          = "settings.session_cmd"
	keyTwentyFourHour      = "settings.24hr_clock"
	keyDarkTheme           = "display.dark_theme"
	keyLogLevel            = "log.level"
	keyLogMaxSize          = "log.max_size_mb"
)

// WithViperConfig returns an Option that loads configuration from the
// yaml file at configPath. A file with default values is written when none
// exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults.
func setupViper(v *viper.Viper) {
	v.SetDefault(keyStorageDriver, DriverBolt)
	v.SetDefault(keyStoragePath, DBFilePath())
	v.SetDefault(keySoundDir, SoundsDir())
	v.SetDefault(keyNotificationBackend, BackendAuto)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 5)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	return nil
}

// parseDuration accepts Go duration strings and bare numbers of minutes.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}
