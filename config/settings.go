package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings is the typed view of the keys the command line tool itself
// understands. Everything else in the document is left alone.
type Settings struct {
	Logging LoggingSettings `mapstructure:"logging"`
}

// LoggingSettings holds logging configuration.
type LoggingSettings struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn warning error"`
	// File, when set, receives a plain copy of every log record.
	File string `mapstructure:"file"`
	// Format is auto (colour on a terminal, JSON otherwise), text or json.
	Format string `mapstructure:"format" validate:"required,oneof=auto text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"log":        "logging.level",
	"logfile":    "logging.file",
	"log-format": "logging.format",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok || !f.Changed {
			return
		}
		if bindErr := v.BindPFlag(viperKey, f); bindErr != nil && err == nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.format", "auto")
}

// Settings decodes the tool's own settings from the merged document.
// Order of precedence (highest to lowest): flags > env > document > defaults.
// Environment variables use the application prefix, e.g.
// TOMATO_LOGGING_LEVEL.
//
// flags may be nil.
func (s *Store) Settings(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	setDefaults(v)

	if err := v.MergeConfigMap(s.Document().Map()); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	v.SetEnvPrefix(strings.ToUpper(s.opts.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return &cfg, nil
}
