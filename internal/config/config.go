package config

import "time"

// Config holds all application configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	Notify NotifyConfig `mapstructure:"notify"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	UI     UIConfig     `mapstructure:"ui" validate:"required"`
}

// StoreConfig tunes the simulated remote store.
type StoreConfig struct {
	SeedFile     string  `mapstructure:"seed_file"`
	FailureRate  float64 `mapstructure:"failure_rate" validate:"gte=0,lte=1"`
	FaultSeed    uint64  `mapstructure:"fault_seed"`
	Latency      string  `mapstructure:"latency" validate:"required,oneof=none random"`
	LatencyScale float64 `mapstructure:"latency_scale" validate:"gte=0"`
	IDs          string  `mapstructure:"ids" validate:"required,oneof=sequential ulid"`
}

type NotifyConfig struct {
	// Duration <= 0 keeps notifications until dismissed.
	Duration time.Duration `mapstructure:"duration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
	File   string `mapstructure:"file"`
}

type UIConfig struct {
	Theme   string `mapstructure:"theme" validate:"required,oneof=classic neon mono"`
	NoColor bool   `mapstructure:"no_color"`
}
