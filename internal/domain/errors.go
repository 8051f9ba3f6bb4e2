package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags the category of a failed fetch.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidURL
	KindNotFound
	KindForbidden
	KindRateLimited
	KindNetworkUnavailable
	KindUpstreamError
	KindMalformedResponse
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "unknown",
	KindInvalidURL:         "invalid_url",
	KindNotFound:           "not_found",
	KindForbidden:          "forbidden",
	KindRateLimited:        "rate_limited",
	KindNetworkUnavailable: "network_unavailable",
	KindUpstreamError:      "upstream_error",
	KindMalformedResponse:  "malformed_response",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FetchError is the only error type returned by a Collector.
type FetchError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int    // 0 when no response was received
	Body       []byte // raw upstream body, kept for UpstreamError diagnostics
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf reports the ErrorKind carried by err. Errors that are not a
// *FetchError are KindUnknown; a nil error is also KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func ErrInvalidURL() *FetchError {
	return &FetchError{Kind: KindInvalidURL, Message: "Invalid Reddit URL. Please enter a valid Reddit post URL."}
}

func ErrNetwork(cause error) *FetchError {
	return &FetchError{
		Kind:    KindNetworkUnavailable,
		Message: "No response from Reddit. Please check your internet connection.",
		Err:     cause,
	}
}

func ErrMalformed(msg string, cause error) *FetchError {
	return &FetchError{Kind: KindMalformedResponse, Message: msg, Err: cause}
}

func ErrUnknown(cause error) *FetchError {
	return &FetchError{
		Kind:    KindUnknown,
		Message: fmt.Sprintf("Failed to fetch post: %v", cause),
		Err:     cause,
	}
}
