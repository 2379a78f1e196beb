package service

import (
	"errors"
	"fmt"
)

// Code classifies a resolution failure for the caller.
type Code string

const (
	CodeInvalidParameters         Code = "INVALID_PARAMETERS"
	CodeGeocodingFailed           Code = "GEOCODING_FAILED"
	CodeDistanceCalculationFailed Code = "DISTANCE_CALCULATION_FAILED"
	CodeReferentialIntegrity      Code = "REFERENTIAL_INTEGRITY_ERROR"
)

const (
	msgInvalidParameters = "Please provide both start and end addresses."
	msgDistanceFailed    = "Could not calculate distance between the provided locations."
	msgIntegrity         = "Could not record the computed distance."
)

// Side names which of the two requested places an error refers to.
type Side string

const (
	SideStart Side = "start"
	SideEnd   Side = "end"
)

// Error is a classified, terminal resolution failure.
type Error struct {
	Code    Code
	Message string
	Side    Side
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("service: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientFault reports whether the failure stems from the request or an external
// provider rather than from the service's own data.
func (e *Error) ClientFault() bool {
	return e.Code != CodeReferentialIntegrity
}

// AsError extracts a classified error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func invalidParameters() *Error {
	return &Error{Code: CodeInvalidParameters, Message: msgInvalidParameters}
}

func geocodingFailed(side Side, err error) *Error {
	return &Error{
		Code:    CodeGeocodingFailed,
		Message: fmt.Sprintf("Could not geocode the %s address.", side),
		Side:    side,
		Err:     err,
	}
}

func distanceFailed(err error) *Error {
	return &Error{Code: CodeDistanceCalculationFailed, Message: msgDistanceFailed, Err: err}
}

func integrityFailed(err error) *Error {
	return &Error{Code: CodeReferentialIntegrity, Message: msgIntegrity, Err: err}
}
