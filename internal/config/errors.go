package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every validation failure.
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// InvalidConfigurationError names the offending field.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}
