package entities

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RemoteErrorKind classifies failures reported by the Gitea API.
type RemoteErrorKind int

const (
	// KindAuthentication is a 401: the credentials were rejected.
	KindAuthentication RemoteErrorKind = iota + 1
	// KindAuthorization is a 403: authenticated but not permitted.
	KindAuthorization
	// KindNotFound is a 404: repository, branch, or path does not exist.
	KindNotFound
	// KindConflict is a 409/422, including stale revision-token rejections.
	KindConflict
	// KindValidation is any other 4xx carrying a structured body.
	KindValidation
	// KindNetwork is a transport-level failure before any HTTP status.
	KindNetwork
	// KindUnexpected is any remaining non-success status (5xx etc.).
	KindUnexpected
)

// RemoteError carries the precise remote status and body so user-visible
// failures are never reduced to a generic message.
type RemoteError struct {
	Kind    RemoteErrorKind
	Status  int
	Message string
	Body    string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	if e.Body == "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, e.Body)
}

// NewNetworkError wraps a transport-level failure that never produced an
// HTTP status.
func NewNetworkError(message string, err error) *RemoteError {
	return &RemoteError{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("%s: %v", message, err),
	}
}

// ClassifyStatus maps an HTTP status code onto the error taxonomy. The body
// is preserved verbatim for diagnostics.
func ClassifyStatus(message string, status int, body string) *RemoteError {
	var kind RemoteErrorKind
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuthentication
	case status == http.StatusForbidden:
		kind = KindAuthorization
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		kind = KindConflict
	case status >= 400 && status < 500:
		kind = KindValidation
	default:
		kind = KindUnexpected
	}
	return &RemoteError{
		Kind:    kind,
		Status:  status,
		Message: message,
		Body:    body,
	}
}

// remoteKindIs reports whether err is a RemoteError of the given kind.
func remoteKindIs(err error, kind RemoteErrorKind) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.Kind == kind
}

// IsAuthenticationError reports whether err is a 401-class failure.
func IsAuthenticationError(err error) bool {
	return remoteKindIs(err, KindAuthentication)
}

// IsAuthorizationError reports whether err is a 403-class failure.
func IsAuthorizationError(err error) bool {
	return remoteKindIs(err, KindAuthorization)
}

// IsNotFoundError reports whether err is a 404-class failure.
func IsNotFoundError(err error) bool {
	return remoteKindIs(err, KindNotFound)
}

// IsConflictError reports whether err is a 409/422-class failure.
func IsConflictError(err error) bool {
	return remoteKindIs(err, KindConflict)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	return remoteKindIs(err, KindNetwork)
}

// CommandError is a non-zero exit from a version-control invocation. The
// combined output is kept because the push recovery ladder classifies
// failures by inspecting it.
type CommandError struct {
	Name   string
	Args   []string
	Dir    string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf(
		"%s %s: %v: %s",
		e.Name, strings.Join(e.Args, " "), e.Err, strings.TrimSpace(e.Output),
	)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandOutput extracts the combined output of a failed git invocation
// anywhere in err's chain, or falls back to the error text.
func CommandOutput(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Output
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
