package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidParameter is returned when a time, duration or mode is malformed or out of range.
// The request is rejected and device state is left unchanged.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrUnsynchronized is reported when alarm evaluation runs before the first clock sync.
// It never reaches a caller; pending alarms are simply held.
var ErrUnsynchronized = errors.New("clock not synchronized")

// ErrSubscriberUnreachable is returned when a push subscriber can't take a message.
var ErrSubscriberUnreachable = errors.New("subscriber unreachable")

// ErrUnavailable is returned when the engine loop is not running to accept a command.
var ErrUnavailable = errors.New("engine unavailable")

// ErrInternal is returned for unexpected internal errors
var ErrInternal = errors.New("internal error")

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// WrapErrorf wraps an error with additional context using fmt.Errorf
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// IsInvalidParameter returns true if the error is or wraps ErrInvalidParameter
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsUnsynchronized returns true if the error is or wraps ErrUnsynchronized
func IsUnsynchronized(err error) bool {
	return errors.Is(err, ErrUnsynchronized)
}

// IsSubscriberUnreachable returns true if the error is or wraps ErrSubscriberUnreachable
func IsSubscriberUnreachable(err error) bool {
	return errors.Is(err, ErrSubscriberUnreachable)
}

// IsUnavailable returns true if the error is or wraps ErrUnavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// InvalidParameterf returns a formatted ErrInvalidParameter error
func InvalidParameterf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidParameter)...)
}

// SubscriberUnreachablef returns a formatted ErrSubscriberUnreachable error
func SubscriberUnreachablef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrSubscriberUnreachable)...)
}

// Internalf returns a formatted ErrInternal error
func Internalf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInternal)...)
}

// Unavailablef returns a formatted ErrUnavailable error
func Unavailablef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnavailable)...)
}
