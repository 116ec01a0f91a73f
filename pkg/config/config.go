package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "taskdeck"
	configFile = "config.yaml"
	envPrefix  = "TASKDECK"
)

type Config struct {
	// Driver selects the store backend: "sqlite" or "postgres".
	Driver       string `mapstructure:"driver" yaml:"driver"`
	DBPath       string `mapstructure:"db_path" yaml:"db_path"`
	DSN          string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	ShowComments bool   `mapstructure:"show_comments" yaml:"show_comments"`
	SessionFile  string `mapstructure:"session_file" yaml:"session_file"`
}

// Dir is ~/.config/taskdeck.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the configuration used when no file exists, with every
// file living under dir.
func Default(dir string) *Config {
	return &Config{
		Driver:      "sqlite",
		DBPath:      filepath.Join(dir, "tasks.db"),
		LogFile:     filepath.Join(dir, "taskdeck.log"),
		SessionFile: filepath.Join(dir, "session.json"),
	}
}

// LoadFrom reads the config at path. A missing file yields defaults rooted
// at the file's directory. TASKDECK_* environment variables override both.
func LoadFrom(path string) (*Config, error) {
	def := Default(filepath.Dir(path))

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("driver", def.Driver)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("dsn", def.DSN)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("show_comments", def.ShowComments)
	v.SetDefault("session_file", def.SessionFile)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Driver == "" {
		cfg.Driver = def.Driver
	}
	return &cfg, nil
}

func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}
