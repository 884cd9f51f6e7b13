package safecomms

import (
	"errors"
	"fmt"

	"github.com/safecomms/gosdk/internal"
)

var (
	ErrAPIKeyRequired      = errors.New("API key is required")
	ErrInvalidBaseURL      = errors.New("invalid base URL")
	ErrEndpointUnavailable = errors.New("endpoint not available for this service variant")

	// Request errors. These are returned before any network I/O happens.
	ErrInvalidRequest   = errors.New("invalid request")
	ErrContentRequired  = fmt.Errorf("%w: content is required", ErrInvalidRequest)
	ErrImageRequired    = fmt.Errorf("%w: image is required", ErrInvalidRequest)
	ErrFileRequired     = fmt.Errorf("%w: file is required", ErrInvalidRequest)
	ErrFileNameRequired = fmt.Errorf("%w: file name is required", ErrInvalidRequest)

	// Status errors. An *APIError unwraps to one of these depending on its status code.
	ErrBadRequest       = internal.ErrBadRequest
	ErrUnauthorized     = internal.ErrUnauthorized
	ErrNotFound         = internal.ErrNotFound
	ErrRateLimited      = internal.ErrRateLimited
	ErrServer           = internal.ErrServer
	ErrUnexpectedStatus = internal.ErrUnexpectedStatus
)

// ConfigError is returned by New when the options do not describe a usable client. It wraps
// ErrAPIKeyRequired or ErrInvalidBaseURL.
type ConfigError = internal.ConfigError

// TransportError is returned when the request could not be completed: the host could not be
// resolved, the connection was refused, the request timed out or the context was canceled. The
// underlying cause is available through errors.Is / errors.As:
//
//	if errors.Is(err, context.DeadlineExceeded) {
//		// retry later, or give up
//	}
type TransportError = internal.TransportError

// APIError is returned when the service responds with a non-2xx status. It is the error you will
// see most often, and it carries both the status code and the raw response body so you can
// inspect whatever detail the service returned.
//
// Redirects (301, 302, 303, 307, 308) are followed transparently and only the status of the final
// response is checked. The Authorization header is not forwarded when a redirect leaves the
// original host.
//
// APIError implements Unwrap(), so broad categories can be checked directly:
//
//	if errors.Is(err, safecomms.ErrRateLimited) {
//		// back off
//	}
//
//	// Or extract the APIError for the status and body
//	var apiErr *safecomms.APIError
//	if errors.As(err, &apiErr) {
//		log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
//
// It also implements GRPCStatus(), so status.Code(err) yields a sensible gRPC code when the SDK
// is called from a gRPC service.
type APIError = internal.APIError

// DecodeError is returned when the service answered with a success status but the body is not
// valid JSON. This indicates a contract mismatch rather than a rejected request.
type DecodeError = internal.DecodeError

func configError(err error) error {
	return &ConfigError{Err: err}
}
