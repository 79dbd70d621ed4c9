package config

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks cfg against its struct tags (required, oneof, gt,
// gte/lte, min/max). Call after ApplyDefaults, since validate:"required"
// fields are expected to already be populated by then.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
