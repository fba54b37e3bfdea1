package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// MetricsConfig holds the Prometheus exposition settings
type MetricsConfig struct {
	// Enable the /metrics HTTP listener
	Enabled bool `mapstructure:"enabled"`

	// Listen address for the metrics endpoint
	Addr string `mapstructure:"addr"`
}
