package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TODO_STORE_FAILURE_RATE.
const EnvPrefix = "TODO"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.seed_file", "")
	v.SetDefault("store.failure_rate", 0.1)
	v.SetDefault("store.fault_seed", 0)
	v.SetDefault("store.latency", "random")
	v.SetDefault("store.latency_scale", 1.0)
	v.SetDefault("store.ids", "sequential")
	v.SetDefault("notify.duration", "3s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.no_color", false)
}

// Load reads configuration from defaults, the optional config file,
// TODO_* environment variables and whatever flags were bound on v, in
// increasing order of precedence.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
