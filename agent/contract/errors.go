package contract

import "errors"

var (
	ErrModelInvoke           = errors.New("model invoke failed")
	ErrProviderNotConfigured = errors.New("provider is not configured")
	ErrToolFailed            = errors.New("tool execution failed")
	ErrToolUnknown           = errors.New("tool is not registered")
	ErrValidation            = errors.New("validation failed")
)
