package shared

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal helper failure.
type Kind int

const (
	KindUnknown Kind = iota
	UsageError
	DeviceUnavailable
	ConnectFailure
	IoctlFailure
	ReadFailure
	WriteFailure
	PollFailure
	EmptyRequest
	RequestTooLarge
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	UsageError:        "usage_error",
	DeviceUnavailable: "device_unavailable",
	ConnectFailure:    "connect_failure",
	IoctlFailure:      "ioctl_failure",
	ReadFailure:       "read_failure",
	WriteFailure:      "write_failure",
	PollFailure:       "poll_failure",
	EmptyRequest:      "empty_request",
	RequestTooLarge:   "request_too_large",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HelperError is a terminal failure of one helper invocation. Op names the
// operation that failed, e.g. "open(/dev/nsm)" or "write(stdout)".
type HelperError struct {
	Kind Kind
	Op   string
	Err  error // underlying OS error, if any
}

func (e *HelperError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *HelperError) Unwrap() error {
	return e.Err
}

// Is matches another *HelperError by kind, so errors.Is(err, &HelperError{Kind: WriteFailure}) works.
func (e *HelperError) Is(target error) bool {
	t, ok := target.(*HelperError)
	return ok && t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// NewError builds a HelperError.
func NewError(kind Kind, op string, err error) *HelperError {
	return &HelperError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first HelperError in err's chain.
func KindOf(err error) Kind {
	var he *HelperError
	if errors.As(err, &he) {
		return he.Kind
	}
	return KindUnknown
}
