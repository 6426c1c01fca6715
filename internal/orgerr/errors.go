// Package orgerr defines the error taxonomy shared by the organization
// loader, credential broker, region catalog, and crawler.
package orgerr

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind classifies an error without requiring callers to match on a
// concrete type. Kinds map onto the handling rules described in the
// design: some are terminal, some are recoverable locally, some are
// retried internally before ever reaching the caller.
type Kind int

const (
	Unknown Kind = iota
	AccessDenied
	ExpiredToken
	Throttled
	CacheMissing
	CacheStale
	InvalidAccount
	InvalidRegion
	InvalidService
	PayloadError
	Transport
)

func (k Kind) String() string {
	switch k {
	case AccessDenied:
		return "AccessDenied"
	case ExpiredToken:
		return "ExpiredToken"
	case Throttled:
		return "Throttled"
	case CacheMissing:
		return "CacheMissing"
	case CacheStale:
		return "CacheStale"
	case InvalidAccount:
		return "InvalidAccount"
	case InvalidRegion:
		return "InvalidRegion"
	case InvalidService:
		return "InvalidService"
	case PayloadError:
		return "PayloadError"
	case Transport:
		return "Transport"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with a Kind and, where relevant, the
// account it occurred against. It is the one error type this module
// returns across package boundaries, so callers can always errors.As
// into it rather than match on provider-specific exception types.
type Error struct {
	Kind      Kind
	Account   string
	Err       error
}

func New(kind Kind, account string, err error) *Error {
	return &Error{Kind: kind, Account: account, Err: err}
}

func (e *Error) Error() string {
	if e.Account != "" {
		return fmt.Sprintf("%s: account %s: %v", e.Kind, e.Account, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match any *Error target of the same Kind, e.g.
// errors.Is(err, orgerr.New(orgerr.AccessDenied, "", nil)).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// IsRetryable reports whether the error kind is one the loader's
// pagination path retries internally rather than propagating
// immediately.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == Throttled
	}
	return isThrottlingCode(err)
}

// ClassifyAWSError maps a raw AWS SDK error into a Kind using the
// smithy API error code, the same mechanism the teacher's
// isAccessDeniedError helper used for a single case.
func ClassifyAWSError(err error) Kind {
	if err == nil {
		return Unknown
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "AccessDenied":
			return AccessDenied
		case "ExpiredTokenException", "ExpiredToken":
			return ExpiredToken
		case "TooManyRequestsException", "Throttling", "ThrottlingException":
			return Throttled
		}
	}
	return Transport
}

func isThrottlingCode(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TooManyRequestsException", "Throttling", "ThrottlingException":
			return true
		}
	}
	return false
}

// Wrap classifies err via ClassifyAWSError and wraps it for the named
// account (account may be empty for org-level calls).
func Wrap(account string, err error) error {
	if err == nil {
		return nil
	}
	return New(ClassifyAWSError(err), account, err)
}
