package problemgen

import (
	"errors"
	"fmt"
)

// ErrUnknownFamily is returned when no generator is registered for a family.
var ErrUnknownFamily = errors.New("unknown problem family")

// ConfigError describes a Spec that cannot produce problems.
type ConfigError struct {
	Field   string // Spec field at fault: "count", "min", "max"
	Message string // Human-readable description of the failure
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid problem spec %s: %s", e.Field, e.Message)
}
