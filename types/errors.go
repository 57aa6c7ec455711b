package types

import (
	"errors"
	"fmt"
)

// AuthReason narrows why an authorization attempt failed.
type AuthReason string

const (
	// AuthMissingCredential means neither a usable access token, refresh
	// token, nor authorization code was available.
	AuthMissingCredential AuthReason = "missing_credential"
	// AuthRejected means the token endpoint answered with a 4xx.
	AuthRejected AuthReason = "rejected"
)

// AuthError reports a bad, expired, or missing credential. Not retryable.
type AuthError struct {
	Reason AuthReason
	Body   string
}

func (e *AuthError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("authentication failed (%s): %s", e.Reason, e.Body)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Reason)
}

// TransientError wraps a timeout, 5xx, or transport fault. The same stage
// may be retried by the caller.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient network failure: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// ChunkError reports a specific chunk rejected by the upload endpoint.
type ChunkError struct {
	Index  int
	Status int
	Body   string
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d rejected: status %d: %s", e.Index, e.Status, e.Body)
}

// PublishError reports a rejected finalize call. Terminal: the transferred
// bytes are orphaned on the platform's staging side and are not rolled back.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish rejected: status %d: %s", e.Status, e.Body)
}

// InvalidInputError reports caller input rejected before any network call.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// Failure is the terminal error of a workflow run. The cause is carried
// verbatim; nothing is swallowed on the way up.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("workflow failed at %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether retrying the failed stage is safe. Only
// transient network faults qualify; everything else needs operator action.
func Retryable(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
