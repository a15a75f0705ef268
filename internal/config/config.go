// Package config loads client configuration from a YAML file, environment
// variables (MARKETCTL_ prefix), and flag overrides, in that precedence
// order reversed: flags win, then env, then file, then defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	// APIURL is the marketplace server's base endpoint.
	APIURL string `mapstructure:"api_url"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
	// StateDir overrides where the session files live.
	StateDir string `mapstructure:"state_dir"`
	// Verbose switches the logger to development output.
	Verbose bool `mapstructure:"verbose"`
}

// Init wires viper to the config file and environment. An empty configFile
// searches ./marketctl.yaml and ~/.config/marketctl/marketctl.yaml.
func Init(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		viper.SetConfigName("marketctl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MARKETCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api_url", "http://localhost:8080")
	viper.SetDefault("timeout", 15*time.Second)
	viper.SetDefault("state_dir", "")
	viper.SetDefault("verbose", false)
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".config", "marketctl"),
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "marketctl"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load reads the config file (when present) and unmarshals the resolved
// values. A missing file is fine; a malformed one is not.
func Load() (Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, err
		}
	}
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
