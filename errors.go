// errors.go: structured error handling for arion table operations.
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all table operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arion

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for arion table operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig         errors.ErrorCode = "ARION_INVALID_CONFIG"
	ErrCodeInvalidCapacity       errors.ErrorCode = "ARION_INVALID_CAPACITY"
	ErrCodeInvalidCacheLineSlots errors.ErrorCode = "ARION_INVALID_CACHE_LINE_SLOTS"
	ErrCodeInvalidReclaimInterval errors.ErrorCode = "ARION_INVALID_RECLAIM_INTERVAL"

	// Operation errors (2xxx)
	ErrCodeCapacityExhausted errors.ErrorCode = "ARION_CAPACITY_EXHAUSTED"
	ErrCodeStaleHandle       errors.ErrorCode = "ARION_STALE_HANDLE"

	// Hot-reload errors (3xxx)
	ErrCodeHotConfigRejected errors.ErrorCode = "ARION_HOTCONFIG_REJECTED"
	ErrCodeHotConfigWatch    errors.ErrorCode = "ARION_HOTCONFIG_WATCH_FAILED"

	// Internal errors (5xxx)
	ErrCodePanicRecovered errors.ErrorCode = "ARION_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidCapacity        = "invalid capacity: must be greater than 0"
	msgInvalidCacheLineSlots  = "invalid cache line slots: must be greater than 0 and not exceed capacity"
	msgInvalidReclaimInterval = "invalid reclaim interval: must be greater than 0"
	msgCapacityExhausted      = "table is at capacity"
	msgStaleHandle            = "handle no longer refers to a live entry"
	msgHotConfigRejected      = "hot-reloaded configuration changes a structural field"
	msgHotConfigWatch         = "hot-reload watcher failed"
	msgPanicRecovered         = "panic recovered in table operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidCapacity creates an error for an invalid capacity.
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  1,
	})
}

// NewErrInvalidCacheLineSlots creates an error for an invalid cache line
// slot count.
func NewErrInvalidCacheLineSlots(slots, capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCacheLineSlots, msgInvalidCacheLineSlots, map[string]interface{}{
		"provided_slots": slots,
		"capacity":       capacity,
	})
}

// NewErrInvalidReclaimInterval creates an error for an invalid reclaim
// interval.
func NewErrInvalidReclaimInterval(interval int) error {
	return errors.NewWithContext(ErrCodeInvalidReclaimInterval, msgInvalidReclaimInterval, map[string]interface{}{
		"provided_interval": interval,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrCapacityExhausted creates an error when Insert fails because the
// table is full. Retryable: the caller may succeed after a concurrent
// Remove frees a slot.
func NewErrCapacityExhausted(capacity int) error {
	return errors.NewWithContext(ErrCodeCapacityExhausted, msgCapacityExhausted, map[string]interface{}{
		"capacity": capacity,
	}).AsRetryable()
}

// NewErrStaleHandle creates an error when a handle no longer resolves to a
// live entry (already removed, or never issued by this table).
func NewErrStaleHandle(handle Handle) error {
	return errors.NewWithField(ErrCodeStaleHandle, msgStaleHandle, "handle", uint64(handle))
}

// =============================================================================
// HOT-RELOAD ERRORS
// =============================================================================

// NewErrHotConfigRejected creates an error when a reloaded configuration
// file names a structural field (Capacity, CacheLineSlots), whatever its
// value; neither can change after a table has been created.
func NewErrHotConfigRejected(field string) error {
	return errors.NewWithField(ErrCodeHotConfigRejected, msgHotConfigRejected, "field", field)
}

// NewErrHotConfigWatch creates an error when the underlying config watcher
// fails to start or encounters a read error.
func NewErrHotConfigWatch(cause error) error {
	return errors.Wrap(cause, ErrCodeHotConfigWatch, msgHotConfigWatch)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrPanicRecovered creates an error when a panic is recovered from a
// caller-supplied factory function (see Table.Insert).
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": panicValue,
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsStaleHandle checks if error is a stale-handle error.
func IsStaleHandle(err error) bool {
	return errors.HasCode(err, ErrCodeStaleHandle)
}

// IsCapacityExhausted checks if error is a capacity-exhausted error.
func IsCapacityExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExhausted)
}

// IsConfigError checks if error is a configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidCapacity || code == ErrCodeInvalidCacheLineSlots ||
			code == ErrCodeInvalidReclaimInterval || code == ErrCodeInvalidConfig
	}
	return false
}

// IsRetryable checks if the error can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var arionErr *errors.Error
	if goerrors.As(err, &arionErr) {
		return arionErr.Context
	}
	return nil
}
