package renderer

import (
	"fmt"

	"go.uber.org/multierr"
)

// ConfigurationError reports a numeric parameter that would produce a
// degenerate matrix or break an invariant.
type ConfigurationError struct {
	Field  string
	Value  float32
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

func combineErrors(errs []error) error {
	return multierr.Combine(errs...)
}
