package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions, grouped by the
// Usage/Input/Resource/Domain taxonomy.
var (
	// Usage errors: invalid flag combinations, bad percentile pairs,
	// unknown bivariate-stat selectors, invalid boolean/XSD-mode config.
	ErrUsage               = errors.New("usage error")
	ErrInvalidPercentile   = fmt.Errorf("%w: invalid percentile", ErrUsage)
	ErrInvalidStatSelector = fmt.Errorf("%w: invalid statistic selector", ErrUsage)
	ErrInvalidBoolPattern  = fmt.Errorf("%w: invalid boolean pattern", ErrUsage)
	ErrInvalidScanMode     = fmt.Errorf("%w: invalid xsd scan mode", ErrUsage)

	// Input errors: malformed source data.
	ErrInput           = errors.New("input error")
	ErrFileNotFound    = fmt.Errorf("%w: file not found", ErrInput)
	ErrMalformedRecord = fmt.Errorf("%w: malformed record", ErrInput)
	ErrInvalidUTF8     = fmt.Errorf("%w: invalid utf-8", ErrInput)

	// Resource errors: index/seek failures, memory precheck failure,
	// channel send failure.
	ErrResource         = errors.New("resource error")
	ErrIndexUnavailable = fmt.Errorf("%w: cannot open or seek index", ErrResource)
	ErrInsufficientMem  = fmt.Errorf("%w: insufficient memory for retained samples", ErrResource)
	ErrChannelSend      = fmt.Errorf("%w: channel send failed", ErrResource)

	// ErrNotFound is a generic not-found sentinel for lookups (column name,
	// frequency-table entry, etc.) that aren't part of the four categories
	// above but still need errors.Is-style matching.
	ErrNotFound       = errors.New("not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
)

// NewMalformedRecordError reports the offending record's position, as
// required by the input-error propagation policy (abort with context).
func NewMalformedRecordError(rowIndex int, cause error) error {
	return fmt.Errorf("%w at row %d: %v", ErrMalformedRecord, rowIndex, cause)
}

// NewInsufficientMemError reports the estimated retained-sample
// working set against the usable free-memory budget (available minus
// headroom) that rejected it, so the precheck's refusal is actionable
// rather than a bare sentinel.
func NewInsufficientMemError(estimatedBytes, usableBytes int64) error {
	return fmt.Errorf("%w: estimated %d bytes retained, %d bytes usable", ErrInsufficientMem, estimatedBytes, usableBytes)
}

// NewUsageError wraps a usage-error detail with the ErrUsage sentinel so
// callers can still errors.Is(err, ErrUsage).
func NewUsageError(detail string) error {
	return fmt.Errorf("%w: %s", ErrUsage, detail)
}

// IsUsageError reports whether err is a usage-category error.
func IsUsageError(err error) bool { return errors.Is(err, ErrUsage) }

// IsInputError reports whether err is an input-category error.
func IsInputError(err error) bool { return errors.Is(err, ErrInput) }

// IsResourceError reports whether err is a resource-category error.
func IsResourceError(err error) bool { return errors.Is(err, ErrResource) }

// IsNotFoundError reports whether err is a not-found error.
func IsNotFoundError(err error) bool { return errors.Is(err, ErrNotFound) }
