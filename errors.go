package paypal

import (
	"fmt"
)

// AuthErrorKind tells why a bearer token could not be obtained.
type AuthErrorKind int

const (
	// AuthTransport means the token endpoint could not be reached.
	AuthTransport AuthErrorKind = iota + 1
	// AuthJSONDecode means the token endpoint did not answer with JSON.
	AuthJSONDecode
	// AuthMalformedResponse means the answer lacks a usable bearer token.
	AuthMalformedResponse
	// AuthMissingToken means there is still no valid token after a refresh.
	AuthMissingToken
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthTransport:
		return "transport failure"
	case AuthJSONDecode:
		return "json decode failure"
	case AuthMalformedResponse:
		return "malformed response"
	case AuthMissingToken:
		return "missing token"
	}
	return "unknown"
}

// AuthenticationError is returned when the client cannot get a bearer token.
type AuthenticationError struct {
	Kind   AuthErrorKind
	Status int    // HTTP status, zero on transport failures
	Body   string // Raw response body for malformed responses
	Err    error
}

func (e *AuthenticationError) Error() string {
	s := "paypal auth: " + e.Kind.String()
	if e.Status != 0 {
		s += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Body != "" {
		s += ": " + e.Body
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RequestErrorKind tells why a REST call failed.
type RequestErrorKind int

const (
	// RequestTransport means PayPal could not be reached.
	RequestTransport RequestErrorKind = iota + 1
	// RequestJSONDecode means the response body is not JSON.
	RequestJSONDecode
	// RequestUnexpectedShape means the JSON lacks an expected top-level field.
	RequestUnexpectedShape
)

func (k RequestErrorKind) String() string {
	switch k {
	case RequestTransport:
		return "transport failure"
	case RequestJSONDecode:
		return "json decode failure"
	case RequestUnexpectedShape:
		return "unexpected response"
	}
	return "unknown"
}

// RequestError is returned by the order calls.
// An API error body, if any, is available with errors.As on *[Error].
type RequestError struct {
	Kind   RequestErrorKind
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	s := "paypal request: " + e.Kind.String()
	if e.Status != 0 {
		s += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	if e.Body != "" {
		s += ": " + e.Body
	}
	return s
}

func (e *RequestError) Unwrap() error { return e.Err }

// Error is the PayPal API error response.
// See https://developer.paypal.com/api/rest/responses/.
type Error struct {
	StatusCode int

	Name    string         `json:"name"`
	Message string         `json:"message"`
	DebugID string         `json:"debug_id"`
	Details []*ErrorDetail `json:"details"`
	Links   []*Link        `json:"links"`

	// For identity errors
	Err     string `json:"error"`
	ErrDesc string `json:"error_description"`
}

func (e *Error) Error() string {
	if e.Err != "" {
		return e.Err + ": " + e.ErrDesc
	}
	return fmt.Sprintf("%s: %s (%s)", e.Name, e.Message, e.DebugID)
}

type ErrorDetail struct {
	Field       string `json:"field"`
	Value       string `json:"value"`
	Location    string `json:"location"`
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

// Link is a HATEOAS link.
// See https://developer.paypal.com/api/rest/responses/#link-hateoaslinks.
type Link struct {
	HRef   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}
