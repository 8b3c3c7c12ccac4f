package store

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// CredentialsError indicates the store rejected our authentication. It is
// fatal to the attempted operation and is never retried.
type CredentialsError struct {
	Err error
}

func (e *CredentialsError) Error() string {
	return "object store rejected credentials: " + e.Err.Error()
}

func (e *CredentialsError) Unwrap() error { return e.Err }

// TransportError indicates a per-call transport or service failure. The
// caller decides the blast radius: a listing failure aborts the refresh, a
// single-object failure aborts only that object.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "object store " + e.Op + " failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// LocalIOError indicates a local filesystem failure (directory creation,
// temp-file write, rename). The affected object's transfer is abandoned; the
// sync loop continues.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return "local io failure at " + e.Path + ": " + e.Err.Error()
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// API error codes that mean the credentials themselves are bad.
var credentialErrorCodes = map[string]bool{
	"InvalidAccessKeyId":         true,
	"SignatureDoesNotMatch":      true,
	"AccessDenied":               true,
	"ExpiredToken":               true,
	"InvalidToken":               true,
	"MissingAuthenticationToken": true,
}

// String fallbacks for errors that never reach us as typed API errors
// (e.g. failures inside the SDK's credential resolution chain).
var credentialErrorIndicators = []string{
	"403",
	"unauthorized",
	"expired",
	"invalid token",
	"no credentials",
	"credentials not found",
}

// classify wraps an error from the SDK into the store error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isCredentialFailure(err) {
		return &CredentialsError{Err: err}
	}
	return &TransportError{Op: op, Err: err}
}

func isCredentialFailure(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if credentialErrorCodes[apiErr.ErrorCode()] {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range credentialErrorIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// IsCredentialsError reports whether err (anywhere in its chain) is a
// credentials rejection. Used by callers to surface a blocking alert instead
// of a log line.
func IsCredentialsError(err error) bool {
	var ce *CredentialsError
	return errors.As(err, &ce)
}
