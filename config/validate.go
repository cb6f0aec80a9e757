package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired checks if a string field is not empty.
func ValidateRequired(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLogLevel checks if a log level is valid.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// Validator is an interface for types that can validate themselves.
type Validator interface {
	Validate() error
}

// Validate calls the Validate method on cfg if it implements Validator.
func Validate(cfg any) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Validate checks the logging settings list for per-block errors that are
// worth rejecting at load time. Soft inconsistencies (see Valid) pass.
func (c *Config) Validate() error {
	for i := range c.Logging {
		s := &c.Logging[i]
		if s.FrameworkMinLevel != "" {
			if err := ValidateLogLevel(s.FrameworkMinLevel); err != nil {
				return &ValidationError{
					Field:   fmt.Sprintf("logging[%d].framework_min_level", i),
					Message: "must be one of: debug, info, warn, error, fatal",
				}
			}
		}
	}
	return nil
}
