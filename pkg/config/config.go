// Package config loads process configuration for spotctl using Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. SPOTADMIN_ADDR.
const EnvPrefix = "SPOTADMIN"

// DefaultPath is the config file read when no explicit path is given.
const DefaultPath = "spotadmin.yml"

// Config holds the settings of an admin server process.
type Config struct {
	Addr          string         `mapstructure:"addr" yaml:"addr"`
	BasePath      string         `mapstructure:"base_path" yaml:"base_path"`
	LogLevel      string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string         `mapstructure:"log_format" yaml:"log_format"`
	RolesManifest string         `mapstructure:"roles_manifest" yaml:"roles_manifest"`
	Wizard        WizardConfig   `mapstructure:"wizard" yaml:"wizard"`
	Refunds       RefundsConfig  `mapstructure:"refunds" yaml:"refunds"`
	Activity      ActivityConfig `mapstructure:"activity" yaml:"activity"`
}

// WizardConfig selects listing wizard policies and redirects.
type WizardConfig struct {
	StrictJumps    bool   `mapstructure:"strict_jumps" yaml:"strict_jumps"`
	GuardedAdvance bool   `mapstructure:"guarded_advance" yaml:"guarded_advance"`
	SubmitPath     string `mapstructure:"submit_path" yaml:"submit_path"`
	CancelPath     string `mapstructure:"cancel_path" yaml:"cancel_path"`
}

// RefundsConfig selects the refund gateway. An empty Endpoint uses the mock.
type RefundsConfig struct {
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	Token     string        `mapstructure:"token" yaml:"token"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MockDelay time.Duration `mapstructure:"mock_delay" yaml:"mock_delay"`
}

// ActivityConfig toggles activity emission.
type ActivityConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Channel string `mapstructure:"channel" yaml:"channel"`
}

var envKeys = []string{
	"addr",
	"base_path",
	"log_level",
	"log_format",
	"roles_manifest",
	"wizard.strict_jumps",
	"wizard.guarded_advance",
	"wizard.submit_path",
	"wizard.cancel_path",
	"refunds.endpoint",
	"refunds.token",
	"refunds.timeout",
	"refunds.mock_delay",
	"activity.enabled",
	"activity.channel",
}

// Load resolves configuration with precedence:
// ENV vars > config file > defaults.
// A missing file at DefaultPath is ignored; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: binding %s env: %w", key, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: %s does not exist", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "/admin")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("roles_manifest", "")
	v.SetDefault("wizard.strict_jumps", true)
	v.SetDefault("wizard.guarded_advance", false)
	v.SetDefault("wizard.submit_path", "/host/listings")
	v.SetDefault("wizard.cancel_path", "/host/dashboard")
	v.SetDefault("refunds.endpoint", "")
	v.SetDefault("refunds.token", "")
	v.SetDefault("refunds.timeout", 10*time.Second)
	v.SetDefault("refunds.mock_delay", 1500*time.Millisecond)
	v.SetDefault("activity.enabled", true)
	v.SetDefault("activity.channel", "spotadmin")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
