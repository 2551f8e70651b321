// Package settings loads per-user and per-project defaults for mach.
package settings

import (
	"errors"

	"github.com/spf13/viper"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// FileName is the settings file name, without extension.
	FileName = ".mach"
	// EnvPrefix prefixes the environment variables overriding settings.
	EnvPrefix = "MACH"
)

// Settings holds the defaults applied to every run.
// Values are populated from .mach.yaml, MACH_* env vars and built-in defaults.
type Settings struct {
	Machfile string `mapstructure:"machfile"`
	Shell    string `mapstructure:"shell"`
	Output   string `mapstructure:"output"`
	Encoding string `mapstructure:"encoding"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the first settings file found in dirs, in order, and applies
// environment overrides. A missing file is not an error.
func Load(dirs ...string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("machfile", "")
	v.SetDefault("shell", "/bin/sh")
	v.SetDefault("output", string(domain.OutputLine))
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("log_level", "info")

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, zerr.Wrap(err, "failed to read settings")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, zerr.Wrap(err, "failed to decode settings")
	}

	if _, err := domain.ParseOutputMode(s.Output); err != nil {
		return nil, zerr.With(err, "settings", v.ConfigFileUsed())
	}
	return &s, nil
}
