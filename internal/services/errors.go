package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid    ErrorCode = "invalid"
	ErrorNotFound   ErrorCode = "not_found"
	ErrorBadGateway ErrorCode = "bad_gateway"
	ErrorConfig     ErrorCode = "config"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Is matches on code, so errors.Is(err, ErrDomainNotFound) holds for any
// not_found ServiceError carrying a more specific message.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

func NewInvalidError(msg string) error    { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error   { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }
func NewConfigError(msg string) error     { return &ServiceError{Code: ErrorConfig, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrDomainNotFound signals a scorer call with an id outside the catalog.
	ErrDomainNotFound = &ServiceError{Code: ErrorNotFound}
	// ErrInvalidResponse flags a submission with an unknown question or an
	// out-of-range value.
	ErrInvalidResponse = &ServiceError{Code: ErrorInvalid}
	// ErrEmptyStoryPool means the resource catalog cannot satisfy the
	// mandatory inspiration slot.
	ErrEmptyStoryPool = &ServiceError{Code: ErrorConfig, Message: "story pool is empty"}
	// ErrMalformedNarrative is returned when model output fails validation.
	ErrMalformedNarrative = &ServiceError{Code: ErrorBadGateway}
)
