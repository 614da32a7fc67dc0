package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies why a call failed.
type Kind int

const (
	// KindTransportRejected means the call never produced an HTTP response.
	KindTransportRejected Kind = iota + 1
	// KindRequestFailed means the server answered outside the success range.
	KindRequestFailed
	// KindParsingFailed means the response body did not have the expected shape.
	KindParsingFailed
)

func (k Kind) String() string {
	switch k {
	case KindTransportRejected:
		return "transport_rejected"
	case KindRequestFailed:
		return "request_failed"
	case KindParsingFailed:
		return "parsing_failed"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrTransportRejected = errors.New("request rejected")
	ErrRequestFailed     = errors.New("request failed")
	ErrParsingFailed     = errors.New("parsing failed")
)

// Error is a classified call failure. Exactly one group of fields is meaningful,
// selected by Kind.
type Error struct {
	Kind Kind

	// TransportRejected
	Cause error

	// RequestFailed
	StatusCode int
	Body       []byte

	// ParsingFailed
	Message string
}

// Error renders a diagnostic string for logs. The format is not stable;
// branch on Kind or errors.Is instead.
func (e *Error) Error() string {
	switch e.Kind {
	case KindTransportRejected:
		if e.Cause == nil {
			return "Request rejected"
		}
		return "Request rejected: " + e.Cause.Error()
	case KindRequestFailed:
		return fmt.Sprintf("Request failed: %d %s", e.StatusCode, e.Body)
	case KindParsingFailed:
		return "Parsing failed: " + e.Message
	default:
		return "unknown failure"
	}
}

// Unwrap exposes the kind sentinel and, for transport failures, the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindTransportRejected:
		errs = append(errs, ErrTransportRejected)
		if e.Cause != nil {
			errs = append(errs, e.Cause)
		}
	case KindRequestFailed:
		errs = append(errs, ErrRequestFailed)
	case KindParsingFailed:
		errs = append(errs, ErrParsingFailed)
	}
	return errs
}

// APIErrorDetail is one entry of the server's error details list.
type APIErrorDetail struct {
	TypeURL string `json:"typeUrl"`
	Value   string `json:"value"`
}

// APIError is the structured error envelope the service may return with a
// non-success status.
type APIError struct {
	Code    int32            `json:"code"`
	Message string           `json:"message"`
	Details []APIErrorDetail `json:"details"`
}

// APIError re-parses a RequestFailed body into the server's error envelope.
// It reports false for other kinds or when the body is not such an envelope.
// The classification of e is unchanged either way.
func (e *Error) APIError() (APIError, bool) {
	if e.Kind != KindRequestFailed || len(e.Body) == 0 {
		return APIError{}, false
	}
	var apiErr APIError
	if err := json.Unmarshal(e.Body, &apiErr); err != nil {
		return APIError{}, false
	}
	if apiErr.Code == 0 && apiErr.Message == "" {
		return APIError{}, false
	}
	return apiErr, true
}

// NewTransportRejected classifies a failure that happened before any status code existed.
func NewTransportRejected(cause error) *Error {
	return &Error{Kind: KindTransportRejected, Cause: cause}
}

// NewRequestFailed classifies a non-success response. body is kept verbatim.
func NewRequestFailed(statusCode int, body []byte) *Error {
	return &Error{Kind: KindRequestFailed, StatusCode: statusCode, Body: body}
}

// NewParsingFailed classifies a success response whose body could not be decoded.
func NewParsingFailed(message string) *Error {
	return &Error{Kind: KindParsingFailed, Message: message}
}
