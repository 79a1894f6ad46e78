package advisory

import (
	"context"
	"errors"
	"fmt"

	llmclient "iplinsight/internal/llmClient"
)

// Failure classes reported in logs and metrics.
const (
	ReasonTransport = "transport"
	ReasonTimeout   = "timeout"
	ReasonCanceled  = "canceled"
	ReasonMalformed = "malformed"
)

// ErrNoClient is returned by New when no inference client is supplied.
var ErrNoClient = errors.New("advisory: inference client is required")

// MalformedResponseError reports a response that failed to parse or did not
// satisfy its schema.
type MalformedResponseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	msg := "advisory: malformed response"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func malformed(path, reason string, err error) error {
	return &MalformedResponseError{Path: path, Reason: reason, Err: err}
}

// Classify maps a failed call to one of the Reason* classes.
func Classify(err error) string {
	var mre *MalformedResponseError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.As(err, &mre), errors.Is(err, llmclient.ErrEmptyResponse):
		return ReasonMalformed
	default:
		return ReasonTransport
	}
}
