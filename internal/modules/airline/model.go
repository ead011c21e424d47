// README: Airline API request/result types and the uniform error record.
package airline

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
)

const (
	LoginEndpoint       = "auth/login"
	QueryFlightEndpoint = "flight/query-flight"
	BuyTicketEndpoint   = "ticket/buy-ticket"
	CheckinEndpoint     = "checkin"
)

// AuthFailureMessage is the error text used when no bearer token could be obtained.
const AuthFailureMessage = "Failed to get token. Authentication failed."

type ErrorKind string

const (
	KindAuthFailure    ErrorKind = "auth_failure"
	KindDownstreamHTTP ErrorKind = "downstream_http"
	KindTransport      ErrorKind = "transport"
)

// Error is the record returned in place of a payload when a call fails.
type Error struct {
	Kind    ErrorKind `json:"error_kind"`
	Message string    `json:"error"`
	Status  int       `json:"status,omitempty"`
	Details string    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Result is either the verbatim JSON body of a 200 response or an Error.
type Result struct {
	Body json.RawMessage
	Err  *Error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Raw is the value handed back to API consumers alongside formatted text.
func (r Result) Raw() any {
	if r.Err != nil {
		return r.Err
	}
	return r.Body
}

// Decode unmarshals a successful body into v. It never touches r.Body.
func (r Result) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Request describes one airline API call. Endpoint is relative to the
// versioned API root; leading slashes are ignored.
type Request struct {
	Endpoint     string     `json:"endpoint"`
	Method       string     `json:"method"`
	Query        url.Values `json:"query,omitempty"`
	Body         any        `json:"body,omitempty"`
	RequiresAuth bool       `json:"requires_auth"`
}

// TokenSource supplies bearer tokens for protected calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
