// Package validation provides configuration validation for rediskit.
//
// It supports struct tag validation (using the go-playground validator) and
// programmatic validation with error collection. Both report failures as
// *errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Host string `mapstructure:"host" validate:"required"`
//	    Port int    `mapstructure:"port" validate:"min=1,max=65535"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Duration("dial_timeout", cfg.DialTimeout)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
