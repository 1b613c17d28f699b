package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the CLI defaults. Precedence: flags, then BULBA_* environment variables,
// then the config file, then built-in defaults.
type Config struct {
	Output          string `mapstructure:"output"`
	Debug           bool   `mapstructure:"debug"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

var outputs = map[string]struct{}{
	"text": {},
	"json": {},
	"yaml": {},
	"toml": {},
}

// flagNames maps config keys to the flags that may override them.
var flagNames = map[string]string{
	"output":           "output",
	"debug":            "debug",
	"metrics_textfile": "metrics-textfile",
}

func Default() *Config {
	return &Config{Output: "text"}
}

// Load resolves the configuration. path may be empty, in which case no file is read.
// flags may be nil; flags it does not define are ignored.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BULBA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := outputs[c.Output]; !ok {
		return fmt.Errorf("invalid output format: %q (must be text, json, yaml, or toml)", c.Output)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("metrics_textfile", defaults.MetricsTextfile)
}
