// Package config loads and validates the pipeline configuration.
//
// Configuration comes from config.yml with environment-variable overrides for
// secrets (API key, database DSN, NATS URL). The loaded Config struct is
// passed explicitly into every component.
package config
