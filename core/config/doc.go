// Package config assembles the application configuration.
//
// Each subsystem declares its own Config struct with mapstructure and
// default tags; this package binds them into a single tree backed by
// environment variables (via Viper's AutomaticEnv) and an optional .env
// file (via godotenv). Nested keys map to underscore-separated variables,
// e.g. harvest.endpoint is set by HARVEST_ENDPOINT.
package config
