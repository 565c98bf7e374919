package models

import "fmt"

// InvalidOddsError represents an American price that cannot be converted
// (zero, or inside the open (-100, 100) band). The offending quote should
// be dropped by the caller with a logged warning, never silently zeroed.
type InvalidOddsError struct {
	American int
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid american odds: %d", e.American)
}

// NewInvalidOddsError creates a new invalid odds error
func NewInvalidOddsError(american int) *InvalidOddsError {
	return &InvalidOddsError{American: american}
}

// InputShapeError represents raw input that fails to resolve to the Quote
// shape, or a group whose derived columns lost alignment upstream. It is
// not recoverable locally; callers should skip the offending record or
// group rather than the whole event.
type InputShapeError struct {
	Field   string
	Message string
}

func (e *InputShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("input shape error: %s", e.Message)
	}
	return fmt.Sprintf("input shape error [%s]: %s", e.Field, e.Message)
}

// NewInputShapeError creates a new input shape error
func NewInputShapeError(field, message string) *InputShapeError {
	return &InputShapeError{Field: field, Message: message}
}

// DetectorInputError indicates the mispricing detector received an empty
// exploded quote table, which means a MarketLineGroup invariant was broken
// upstream. It must not be swallowed.
type DetectorInputError struct {
	Subject   string
	MarketKey string
}

func (e *DetectorInputError) Error() string {
	return fmt.Sprintf("detector received empty quote table for %s/%s", e.Subject, e.MarketKey)
}

// ConfigurationError represents thresholds outside their valid range.
// Processing fails fast at entry, before any per-group work.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Reason)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}
