package source

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeUnavailable indicates the discovery service could not be reached
	// or answered with a server error
	ErrTypeUnavailable ErrorType = iota
	// ErrTypeMalformed indicates the response body was not a list of records
	ErrTypeMalformed
	// ErrTypeHTTP indicates a non-2xx status that is not a server error
	ErrTypeHTTP
)

// NetworkErrorSubtype provides more specific classification of unavailability
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorServer
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnavailable:
		return "Source Unavailable"
	case ErrTypeMalformed:
		return "Malformed Response"
	case ErrTypeHTTP:
		return "HTTP Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SourceError represents an error that occurred while talking to the
// discovery service
type SourceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific unavailability reason
	Endpoint       string              // Request URL (for context)
	Retryable      bool                // Whether the error is retryable
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SourceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError turns a transport error into an unavailable error with
// a specific subtype
func ClassifyNetworkError(err error, endpoint string) *SourceError {
	if err == nil {
		return nil
	}

	newErr := func(msg string, sub NetworkErrorSubtype, retryable bool) *SourceError {
		return &SourceError{
			Type:           ErrTypeUnavailable,
			Message:        msg,
			Err:            err,
			NetworkSubtype: sub,
			Endpoint:       endpoint,
			Retryable:      retryable,
		}
	}

	if os.IsTimeout(err) {
		return newErr("request timed out", NetworkErrorTimeout, true)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newErr(fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name), NetworkErrorDNS, false)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return newErr("connection refused", NetworkErrorConnectionRefused, true)
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return newErr("host unreachable", NetworkErrorHostUnreachable, true)
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return newErr("network unreachable", NetworkErrorNetworkUnreachable, true)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		classified := ClassifyNetworkError(urlErr.Err, endpoint)
		classified.Err = err
		return classified
	}

	return newErr("network error occurred", NetworkErrorGeneral, true)
}

// NewUnavailableError creates a transport-level error with automatic classification
func NewUnavailableError(message, endpoint string, err error) *SourceError {
	classified := ClassifyNetworkError(err, endpoint)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &SourceError{
		Type:      ErrTypeUnavailable,
		Message:   message,
		Endpoint:  endpoint,
		Retryable: true,
	}
}

// NewHTTPError creates an error for a non-2xx response. Server errors count as
// unavailability and are retried.
func NewHTTPError(statusCode int, endpoint string) *SourceError {
	if statusCode >= 500 {
		return &SourceError{
			Type:           ErrTypeUnavailable,
			Message:        fmt.Sprintf("server error: HTTP %d", statusCode),
			StatusCode:     statusCode,
			NetworkSubtype: NetworkErrorServer,
			Endpoint:       endpoint,
			Retryable:      true,
		}
	}
	return &SourceError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

// NewMalformedError creates a parsing error
func NewMalformedError(message, endpoint string, err error) *SourceError {
	return &SourceError{
		Type:     ErrTypeMalformed,
		Message:  message,
		Err:      err,
		Endpoint: endpoint,
	}
}

func asSourceError(err error) (*SourceError, bool) {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr, true
	}
	return nil, false
}

// IsUnavailable checks if an error means the discovery service could not be reached
func IsUnavailable(err error) bool {
	srcErr, ok := asSourceError(err)
	return ok && srcErr.Type == ErrTypeUnavailable
}

// IsMalformed checks if an error is a parse error
func IsMalformed(err error) bool {
	srcErr, ok := asSourceError(err)
	return ok && srcErr.Type == ErrTypeMalformed
}

// IsHTTPError checks if an error is a client-side HTTP error
func IsHTTPError(err error) bool {
	srcErr, ok := asSourceError(err)
	return ok && srcErr.Type == ErrTypeHTTP
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if srcErr, ok := asSourceError(err); ok {
		return srcErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// TroubleshootingHint returns user-facing advice for an error
func TroubleshootingHint(err error) string {
	srcErr, ok := asSourceError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch srcErr.Type {
	case ErrTypeUnavailable:
		hint := []string{"The discovery service could not be reached."}
		switch srcErr.NetworkSubtype {
		case NetworkErrorTimeout:
			hint = append(hint, "Troubleshooting:",
				"  • Check that the mesh node is powered on",
				"  • Try increasing --timeout")
		case NetworkErrorConnectionRefused:
			hint = append(hint, "Troubleshooting:",
				"  • Verify the web server on the node is running",
				"  • Check the port in --base-url")
		case NetworkErrorDNS:
			hint = append(hint, "Troubleshooting:",
				"  • Use the node IP address instead of its hostname",
				"  • Run 'meshinv locate' to find advertised services")
		case NetworkErrorServer:
			hint = append(hint, "Troubleshooting:",
				"  • The discovery script failed on the node; check its logs")
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check you are connected to the mesh",
				"  • Run 'meshinv locate' to find advertised services")
		}
		return strings.Join(hint, "\n")

	case ErrTypeMalformed:
		return strings.Join([]string{
			"The discovery service answered with data meshinv does not understand.",
			"Troubleshooting:",
			"  • Check that --base-url points at the discovery endpoint",
			"  • Every device entry needs an ip and a mac",
		}, "\n")

	case ErrTypeHTTP:
		if srcErr.StatusCode == 404 {
			return "The discovery endpoint was not found. Check --base-url."
		}
		return fmt.Sprintf("The discovery service returned HTTP %d.", srcErr.StatusCode)

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-facing error message
func ShortMessage(err error) string {
	srcErr, ok := asSourceError(err)
	if !ok {
		return err.Error()
	}

	switch srcErr.Type {
	case ErrTypeUnavailable:
		switch srcErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Discovery service not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Discovery service refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve discovery service hostname"
		case NetworkErrorHostUnreachable:
			return "Discovery service unreachable"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		case NetworkErrorServer:
			return fmt.Sprintf("Discovery service error (HTTP %d)", srcErr.StatusCode)
		default:
			return "Discovery service unavailable"
		}
	case ErrTypeMalformed:
		return "Malformed response from discovery service"
	case ErrTypeHTTP:
		return fmt.Sprintf("Discovery service returned HTTP %d", srcErr.StatusCode)
	default:
		return srcErr.Message
	}
}
