package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfigOverride indicates an override referenced an
	// undefined section or key, or supplied a value of the wrong shape.
	// Per the best-effort error philosophy, callers log and continue
	// rather than treat this as fatal; Resolver itself never returns it
	// from Resolve (unknown overrides are dropped silently), it exists
	// for callers that want to validate a single update_learner_param
	// call before applying it.
	ErrInvalidConfigOverride = errors.New("invalid configuration override")

	// ErrInsufficientCalibrationItems indicates complete_calibration was
	// called before enough response data had accumulated.
	ErrInsufficientCalibrationItems = errors.New("insufficient calibration items")
)

// ValidationError wraps configuration validation errors with context.
type ValidationError struct {
	Component string // section/component being validated
	ID        string // key or identifier within the component
	Field     string // nested field name, optional
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s '%s': field '%s': %v", e.Component, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Component, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(component, id, field string, err error) *ValidationError {
	return &ValidationError{
		Component: component,
		ID:        id,
		Field:     field,
		Err:       err,
	}
}

// LoadError wraps configuration loading errors with file context. The
// resolver itself never loads files (§6, §10.3 — loading is a host
// concern), but this shape is kept for hosts that load partials from
// disk and want a consistent wrapped-error idiom before handing the
// decoded value to SetCourseOverrides / SetLearnerOverrides.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}
