// Package config provides configuration management for the Courtside Totals application.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("algorithm", validateAlgorithm)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return true
	default:
		return false
	}
}

// validateAlgorithm validates the learned-predictor algorithm name
func validateAlgorithm(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "random_forest", "gradient_boost":
		return true
	default:
		return false
	}
}

// validateCrossField applies validations spanning multiple fields
func validateCrossField(cfg *Config) error {
	w := cfg.Model.Weights
	sum := w.Formula + w.Calibrated + w.Learned
	if sum <= 0 {
		return fmt.Errorf("at least one ensemble weight must be positive")
	}
	// Off-by-epsilon sums are normalized at prediction time with a warning;
	// grossly wrong sums are a configuration error.
	if math.Abs(sum-1) > 0.5 {
		return fmt.Errorf("ensemble weights sum to %.3f, expected close to 1", sum)
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
