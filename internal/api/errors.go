package api

import "fmt"

// ErrorKind is the closed set of failure kinds a Service reports.
type ErrorKind int

const (
	// KindNetwork is a transport or connectivity failure.
	KindNetwork ErrorKind = iota + 1
	// KindGraphQL means the server reported at least one application error.
	KindGraphQL
	// KindParsing means the payload could not be decoded.
	KindParsing
	// KindUnknown means the envelope succeeded but the expected field was absent.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindGraphQL:
		return "graphql error"
	case KindParsing:
		return "parsing error"
	case KindUnknown:
		return "unknown error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the only error type returned across the Service boundary.
// Message is set for KindGraphQL when the server supplied one.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrNetwork = &Error{Kind: KindNetwork}
	ErrGraphQL = &Error{Kind: KindGraphQL}
	ErrParsing = &Error{Kind: KindParsing}
	ErrUnknown = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Kind.String() + ": " + e.Message
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. A target carrying a
// message must also match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func graphQLError(msg string) *Error {
	return &Error{Kind: KindGraphQL, Message: msg}
}

func parsingError(err error) *Error {
	return &Error{Kind: KindParsing, Err: err}
}

func unknownError(err error) *Error {
	return &Error{Kind: KindUnknown, Err: err}
}
