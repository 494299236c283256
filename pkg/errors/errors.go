// Unified error handling for the stereotax planner.
//
// Copyright (C) 2026  Stereotax Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import "fmt"

// ErrorCode represents the category of error.
type ErrorCode string

const (
	// ErrInvalidParameter marks out-of-domain or wrong-shape input to a
	// procedure or drill call. Surfaced before any artifact is created.
	ErrInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrIOFailure marks an output artifact that could not be opened or
	// written. Aborts the current call only.
	ErrIOFailure ErrorCode = "IO_FAILURE"

	// ErrPlanSection marks an unrecognized or malformed plan-file section.
	ErrPlanSection ErrorCode = "PLAN_SECTION"
)

// PlanError is the unified error type for the planner.
type PlanError struct {
	// Code is the error category.
	Code ErrorCode

	// Message is a human-readable error description.
	Message string

	// Param is the offending parameter name, if applicable.
	Param string

	// Artifact is the output artifact path, if applicable.
	Artifact string

	// Err wraps the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Param, e.Message)
	case e.Artifact != "":
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Artifact, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// New creates a new PlanError.
func New(code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a category and message.
func Wrap(err error, code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidParameterError creates an error for an out-of-domain parameter.
func InvalidParameterError(param, reason string) *PlanError {
	e := New(ErrInvalidParameter, fmt.Sprintf("parameter '%s' %s", param, reason))
	e.Param = param
	return e
}

// IOFailureError creates an error for an artifact that could not be
// opened or written.
func IOFailureError(artifact string, err error) *PlanError {
	e := Wrap(err, ErrIOFailure, fmt.Sprintf("artifact '%s': %v", artifact, err))
	e.Artifact = artifact
	return e
}

// PlanSectionError creates an error for a plan-file section the runner
// does not recognize.
func PlanSectionError(section, reason string) *PlanError {
	return New(ErrPlanSection, fmt.Sprintf("section '%s': %s", section, reason))
}

// Is checks if an error matches the given error code.
func Is(err error, code ErrorCode) bool {
	if planErr, ok := err.(*PlanError); ok {
		return planErr.Code == code
	}
	return false
}

// IsInvalidParameter checks if an error is a parameter validation error.
func IsInvalidParameter(err error) bool {
	return Is(err, ErrInvalidParameter)
}

// IsIOFailure checks if an error is an output I/O failure.
func IsIOFailure(err error) bool {
	return Is(err, ErrIOFailure)
}
