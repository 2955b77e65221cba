package errors

import (
	"errors"
	"fmt"
)

// Error codes used by the statistical core.
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNonConvergence   = "NON_CONVERGENCE"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// InvalidParameter reports an input that violates a domain invariant.
func InvalidParameter(format string, args ...interface{}) *AppError {
	return Newf(CodeInvalidParameter, format, args...)
}

// NonConvergence reports a bounded numerical search that found no solution.
func NonConvergence(format string, args ...interface{}) *AppError {
	return Newf(CodeNonConvergence, format, args...)
}

// InsufficientData reports too few observations to attempt a calculation.
func InsufficientData(format string, args ...interface{}) *AppError {
	return Newf(CodeInsufficientData, format, args...)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// CodeOf returns the code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsInvalidParameter checks whether err is a parameter-validation failure.
func IsInvalidParameter(err error) bool {
	return err != nil && CodeOf(err) == CodeInvalidParameter
}

// IsNonConvergence checks whether err is a numerical non-convergence failure.
func IsNonConvergence(err error) bool {
	return err != nil && CodeOf(err) == CodeNonConvergence
}

// IsInsufficientData checks whether err is a too-few-observations failure.
func IsInsufficientData(err error) bool {
	return err != nil && CodeOf(err) == CodeInsufficientData
}
