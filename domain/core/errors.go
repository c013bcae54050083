package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidInput marks a caller contract violation (mismatched lengths,
	// out-of-range arguments). Never recovered; aborts the run.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefined marks a statistic that cannot be computed for one trial's
	// data. Recovered locally: the driver records a null and moves on.
	ErrUndefined = errors.New("statistic undefined")

	// ErrNotEnoughData is a stricter subtype of ErrUndefined: the series
	// itself is too short for any statistic. It propagates out of the whole
	// per-trial analysis rather than being absorbed per family.
	ErrNotEnoughData = fmt.Errorf("%w: not enough data", ErrUndefined)

	ErrRunNotFound = errors.New("run not found")
)

// Error constructors with context
func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewLengthMismatchError(what string, n, m int) error {
	return fmt.Errorf("%w: %s lengths differ (%d vs %d)", ErrInvalidInput, what, n, m)
}

func NewUndefinedError(statistic, reason string) error {
	return fmt.Errorf("%w: %s (%s)", ErrUndefined, statistic, reason)
}

func NewNotEnoughDataError(statistic string, have, need int) error {
	return fmt.Errorf("%w: %s needs %d points, have %d", ErrNotEnoughData, statistic, need, have)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUndefined reports whether err is recoverable per-trial. ErrNotEnoughData
// also satisfies this check; callers that care about the distinction must
// test IsNotEnoughData first.
func IsUndefined(err error) bool {
	return errors.Is(err, ErrUndefined)
}

func IsNotEnoughData(err error) bool {
	return errors.Is(err, ErrNotEnoughData)
}
