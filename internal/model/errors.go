package model

import (
	"fmt"
	"strings"
)

// ErrorKind classifies configuration failures.
type ErrorKind string

const (
	KindInvalidHostname          ErrorKind = "invalid_hostname"
	KindInvalidPort              ErrorKind = "invalid_port"
	KindUnreachable              ErrorKind = "unreachable"
	KindModeNotAllowed           ErrorKind = "mode_not_allowed"
	KindUnknownService           ErrorKind = "unknown_service"
	KindMalformedConfig          ErrorKind = "malformed_config"
	KindValidationFailed         ErrorKind = "validation_failed"
	KindPartialGenerationFailure ErrorKind = "partial_generation_failure"
)

// Sentinels for errors.Is; they match any ServiceError of the same kind.
var (
	ErrInvalidHostname          = &ServiceError{Kind: KindInvalidHostname}
	ErrInvalidPort              = &ServiceError{Kind: KindInvalidPort}
	ErrUnreachable              = &ServiceError{Kind: KindUnreachable}
	ErrModeNotAllowed           = &ServiceError{Kind: KindModeNotAllowed}
	ErrUnknownService           = &ServiceError{Kind: KindUnknownService}
	ErrMalformedConfig          = &ServiceError{Kind: KindMalformedConfig}
	ErrValidationFailed         = &ServiceError{Kind: KindValidationFailed}
	ErrPartialGenerationFailure = &ServiceError{Kind: KindPartialGenerationFailure}
)

// ServiceError carries the service key and attempted endpoint so the user can
// correct the input without re-running detection.
type ServiceError struct {
	Kind     ErrorKind
	Service  string
	Endpoint string
	Detail   string
	Err      error
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	if e.Service != "" {
		b.WriteString(e.Service)
		if e.Endpoint != "" {
			fmt.Fprintf(&b, " (%s)", e.Endpoint)
		}
		b.WriteString(": ")
	}
	b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches by kind against sentinels.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Service == "" && t.Detail == "" && t.Err == nil
}
