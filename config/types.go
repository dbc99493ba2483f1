package config

// APIConfig describes access to the Trafikverket TrainAnnouncement endpoint.
type APIConfig struct {
	URL            string  `yaml:"url" validate:"omitempty,url"`
	Key            string  `yaml:"key"`
	TimeoutSec     int     `yaml:"timeoutSec" validate:"gte=0"`
	MaxRetries     int     `yaml:"maxRetries" validate:"gte=0"`
	BackoffSec     float64 `yaml:"backoffSec" validate:"gte=0"`
	WindowPauseMS  int     `yaml:"windowPauseMS" validate:"gte=0"`
	LimitPerWindow int     `yaml:"limitPerWindow" validate:"gte=0"`
	FetchDays      int     `yaml:"fetchDays" validate:"gte=0"`
}

// StoreConfig selects and configures the object-store backend.
type StoreConfig struct {
	Backend     string `yaml:"backend" validate:"omitempty,oneof=fs postgres"`
	Root        string `yaml:"root"`
	DatabaseURL string `yaml:"databaseURL"`
}

// NATSConfig configures the optional snapshot-event publisher.
// An empty URL disables publishing.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subjectPrefix"`
}

// Config is the root configuration structure. It is built once at process
// start and passed by reference into each component; nothing reads ambient
// environment state after Load returns.
type Config struct {
	API         APIConfig   `yaml:"api"`
	Store       StoreConfig `yaml:"store"`
	NATS        NATSConfig  `yaml:"nats"`
	MetricsAddr string      `yaml:"metricsAddr"`
	Timezone    string      `yaml:"timezone"`
}
