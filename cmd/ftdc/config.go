package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "ftdc"

var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envLogLevel  = strings.ToUpper(appName) + "_LOG_LEVEL"
	envLogFormat = strings.ToUpper(appName) + "_LOG_FORMAT"
	envLibDirs   = strings.ToUpper(appName) + "_LIB_DIRS"
)

// Config is the optional config.yml of the config directory.
type Config struct {
	LogLevel  string   `yaml:"log-level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string   `yaml:"log-format" validate:"omitempty,oneof=text json"`
	Minify    bool     `yaml:"minify"`
	OutputDir string   `yaml:"output-dir"`
	LibDirs   []string `yaml:"lib-dirs" validate:"dive,required"`

	dir string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads dir/config.yml, applies the environment on top and
// validates the result. A missing file yields the defaults.
func loadConfig(dir string) (Config, error) {
	cfg := Config{LogLevel: "warn", LogFormat: "text", dir: dir}
	path := filepath.Join(dir, "config.yml")
	in, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(in, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s, found %q", field, e.Param(), e.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s has an empty entry", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// resolveLibDirs returns all library directories to load documents from.
// Order: configDir/lib → config lib-dirs → $<APPNAME>_LIB_DIRS → flagDirs
func resolveLibDirs(cfg Config, flagDirs []string) []string {
	dirs := []string{filepath.Join(cfg.dir, "lib")}
	dirs = append(dirs, cfg.LibDirs...)
	dirs = append(dirs, splitColon(os.Getenv(envLibDirs))...)
	dirs = append(dirs, flagDirs...)
	return dirs
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
