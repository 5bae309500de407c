package resilience

import "errors"

// ErrTimeout indicates a single attempt exceeded the policy's timeout.
// A timed-out attempt counts against the retry budget like any other failure.
var ErrTimeout = errors.New("remote call timed out")

// permanentError marks a failure that must not be retried, even under an
// idempotent policy (e.g. a uniqueness conflict that will never change).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Call returns it immediately instead of retrying.
// The original error stays reachable through errors.Is / errors.As.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// IsTimeout reports whether err is (or wraps) ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
