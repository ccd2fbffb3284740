// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are looked up in conventional locations (./cmd/<service>/config.yml,
// ./config/config.yml, ./config.yml, ...) unless given explicitly. Environment
// variables win over file values; REDIS_DIAL_TIMEOUT maps to redis.dial_timeout.
//
//	cfg, err := config.Load[AppConfig]("cache-svc", config.WithEnvPrefix("RK"))
//
// Load applies defaults and validation when the target type provides
// ApplyDefaults / Validate.
package config
