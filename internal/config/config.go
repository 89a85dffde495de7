// Package config loads tq settings from config.yaml, TQ_* environment variables and flags.
package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName = "config"
	configType = "yaml"
	envPrefix  = "TQ"
	appDir     = "tq"
)

// Config holds all settings. Precedence: flags > environment > config file > defaults.
type Config struct {
	// Vault is the directory of markdown notes to scan. Empty means the project root.
	Vault string `mapstructure:"vault" yaml:"vault"`

	// GlobalFilter, when set, is a tag a checklist line must contain to count as a task.
	GlobalFilter string `mapstructure:"global_filter" yaml:"global_filter"`

	Output struct {
		JSON bool `mapstructure:"json" yaml:"json"`
	} `mapstructure:"output" yaml:"output"`

	Logging struct {
		Level  string `mapstructure:"level" yaml:"level"`   // "debug", "info", "warn", "error"
		Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	} `mapstructure:"logging" yaml:"logging"`

	Store struct {
		// Dir overrides the saved query directory (~/.tq/<project>/ by default).
		Dir string `mapstructure:"dir" yaml:"dir"`
	} `mapstructure:"store" yaml:"store"`
}

// flagKeys maps flag names to the config keys they override.
//
//nolint:gochecknoglobals // read-only lookup table
var flagKeys = map[string]string{
	"vault":         "vault",
	"global-filter": "global_filter",
	"json":          "output.json",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"store-dir":     "store.dir",
}

// Load reads configuration. configFile, when non-empty, is used instead of searching
// projectDir, the user config directory and the working directory. A .tq/.env file in
// projectDir is loaded into the environment first. flags may be nil.
func Load(configFile, projectDir string, flags *pflag.FlagSet) (*Config, error) {
	if projectDir != "" {
		if err := LoadDotEnv(filepath.Join(projectDir, ".tq", ".env")); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if projectDir != "" {
			v.AddConfigPath(filepath.Join(projectDir, ".tq"))
		}
		if dir, err := UserConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		slog.Debug("no config.yaml found, using defaults")
	} else {
		slog.Debug("loaded configuration", "file", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vault", "")
	v.SetDefault("global_filter", "")
	v.SetDefault("output.json", false)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.SetDefault("store.dir", "")
}

// bindFlags lets every known flag that is present in flags override its config key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadDotEnv loads TQ_* variables from a .env file. A missing file is not an error.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// UserConfigDir returns $XDG_CONFIG_HOME/tq (or the platform equivalent).
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// WriteDefault writes the default settings as YAML to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	cfg := Config{}
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "text"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
