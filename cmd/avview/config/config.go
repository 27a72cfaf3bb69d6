// Package config loads the avview command configuration with viper.
//
// Values come from, in increasing priority: built-in defaults, an optional
// YAML config file, and AVVIEW_* environment variables (AVVIEW_LOGLEVEL,
// AVVIEW_BACKENDS="v4l2 alsa", ...).
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/obinnaokechukwu/avview/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key to form its environment variable.
const EnvPrefix = "AVVIEW"

// Settings is a snapshot of the resolved configuration.
type Settings struct {
	LogLevel       string   `mapstructure:"loglevel"`
	LogFile        string   `mapstructure:"logfile"`
	FFmpegLogLevel string   `mapstructure:"ffmpegloglevel"`
	LibraryPaths   []string `mapstructure:"librarypaths"`
	Backends       []string `mapstructure:"backends"`
	Output         string   `mapstructure:"output"`
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", "warn")
	v.SetDefault("logfile", "")
	v.SetDefault("ffmpegloglevel", "error")
	v.SetDefault("librarypaths", []string{})
	// Empty means every input and output backend libavdevice reports.
	v.SetDefault("backends", []string{})
	v.SetDefault("output", "text")
}

// New returns a viper instance with defaults and environment bindings in place.
func New() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configFilePath into v. A missing file is not an error:
// defaults and the environment still apply.
func LoadConfig(v *viper.Viper, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	v.SetConfigFile(configFilePath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Info("no config file found", "configFilePath", configFilePath)
			return nil
		}
		slog.Error("error during config read", "err", err)
		return err
	}
	return nil
}

// Load resolves the configuration from defaults, configFilePath and the
// environment.
func Load(configFilePath string) (Settings, error) {
	v := New()
	if err := LoadConfig(v, configFilePath); err != nil {
		return Settings{}, err
	}
	return Resolve(v)
}

// Resolve snapshots v into Settings and validates it.
func Resolve(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	// Environment lists arrive as one space separated string.
	s.LibraryPaths = v.GetStringSlice("librarypaths")
	s.Backends = v.GetStringSlice("backends")

	switch s.Output {
	case "text", "json", "yaml":
	default:
		return Settings{}, errors.New("output must be one of text, json, yaml")
	}
	return s, nil
}

// ConfigureLogger installs the default slog logger described by s. The
// returned file, if any, must be closed by the caller.
func ConfigureLogger(s Settings) (*os.File, error) {
	return logging.ConfigureDefaultLogger(s.LogLevel, s.LogFile, slog.HandlerOptions{})
}
