package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Chat limits.
	MaxConnections  int           `mapstructure:"max_connections" yaml:"max_connections"`
	MaxFrameBytes   int           `mapstructure:"max_frame_bytes" yaml:"max_frame_bytes"`
	MaxMessageChars int           `mapstructure:"max_message_chars" yaml:"max_message_chars"`
	SendTimeout     time.Duration `mapstructure:"send_timeout" yaml:"send_timeout"`

	// Background cleanup.
	ReapInterval  time.Duration `mapstructure:"reap_interval" yaml:"reap_interval"`
	StatsInterval time.Duration `mapstructure:"stats_interval" yaml:"stats_interval"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxConnections:    1000,
		MaxFrameBytes:     1024,
		MaxMessageChars:   500,
		SendTimeout:       5 * time.Second,
		ReapInterval:      5 * time.Minute,
		StatsInterval:     time.Minute,
	}
}
