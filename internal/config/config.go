package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

type (
	// Config holds all configuration settings
	Config struct {
		Pomodoro      PomodoroOverrides  `mapstructure:"-"`
		Storage       StorageConfig      `mapstructure:"storage"`
		Sound         SoundConfig        `mapstructure:"sound"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		Display       DisplayConfig      `mapstructure:"display"`
		Log           LogConfig          `mapstructure:"log"`
	}

	// StorageConfig selects the key-value backend for persisted records
	StorageConfig struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}

	// SoundConfig holds sound-related settings
	SoundConfig struct {
		Dir string `mapstructure:"dir"`
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Backend string `mapstructure:"backend"`
	}

	// SettingsConfig holds general timer settings
	SettingsConfig struct {
		SessionCmd     string `mapstructure:"session_cmd"`
		TwentyFourHour bool   `mapstructure:"24hr_clock"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// LogConfig controls the diagnostics log file
	LogConfig struct {
		Level     string `mapstructure:"level"`
		MaxSizeMB int    `mapstructure:"max_size_mb"`
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Notification backends.
const (
	BackendAuto  = "auto"
	BackendDBus  = "dbus"
	BackendBeeep = "beeep"
	BackendOff   = "off"
)

var (
	configDir      = "toolbox"
	configFileName = "config.yml"
	dbFileName     = "toolbox.db"
	logFileName    = "toolbox.log"
	soundsDirName  = "sounds"
	dbFilePath     string
	configFilePath string
	logFilePath    string
	soundsDirPath  string

	pathsOnce sync.Once
	pathsErr  error
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func SoundsDir() string {
	return soundsDirPath
}

// InitializePaths resolves the xdg locations of every file toolbox uses. The
// TOOLBOX_ENV variable keeps separate files per environment.
func InitializePaths() error {
	pathsOnce.Do(func() {
		env := strings.TrimSpace(os.Getenv("TOOLBOX_ENV"))
		if env != "" {
			configFileName = fmt.Sprintf("config_%s.yml", env)
			dbFileName = fmt.Sprintf("toolbox_%s.db", env)
			logFileName = fmt.Sprintf("toolbox_%s.log", env)
		}

		relPath := filepath.Join(configDir, configFileName)

		configFilePath, pathsErr = xdg.ConfigFile(relPath)
		if pathsErr != nil {
			return
		}

		var dataDir string

		dataDir, pathsErr = xdg.DataFile(configDir)
		if pathsErr != nil {
			return
		}

		dbFilePath = filepath.Join(dataDir, dbFileName)
		logFilePath = filepath.Join(dataDir, "log", logFileName)
		soundsDirPath = filepath.Join(dataDir, soundsDirName)
	})

	return pathsErr
}

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
