package variant

import (
	"errors"
	"fmt"

	"github.com/san-kum/vibesaver/internal/config"
)

var (
	// ErrUnknownVariant is matched by every UnknownVariantError.
	ErrUnknownVariant = errors.New("variant: unknown geometry variant")

	// ErrStepPanicked indicates a stepper panicked and the tick was dropped.
	ErrStepPanicked = errors.New("variant: step panicked")

	// ErrStateMismatch indicates a state handle was stepped under another tag.
	ErrStateMismatch = errors.New("variant: state belongs to another variant")
)

// UnknownVariantError reports a tag with no registered builder, or a
// text-driven tag configured without textChar.
type UnknownVariantError struct {
	Tag    config.Geometry
	Reason string
}

func (e *UnknownVariantError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("variant: unknown geometry %q: %s", e.Tag, e.Reason)
	}
	return fmt.Sprintf("variant: unknown geometry %q", e.Tag)
}

func (e *UnknownVariantError) Unwrap() error {
	return ErrUnknownVariant
}

// StepError wraps a failure inside one variant's stepper with the frame it
// happened on.
type StepError struct {
	Variant config.Geometry
	Frame   int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("variant %s: frame %d: %v", e.Variant, e.Frame, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
