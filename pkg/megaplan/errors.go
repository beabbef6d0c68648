package megaplan

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/tansive/megaplan/internal/common/apperrors"
	"github.com/tansive/megaplan/internal/common/httpclient"
	"github.com/tidwall/gjson"
)

var (
	// ErrParameter is returned when a method argument or option is invalid.
	// No request is sent in that case.
	ErrParameter apperrors.Error = apperrors.New("invalid parameter").SetExpandError(true)
	// ErrTransport covers every failure below HTTP: unsupported scheme,
	// connection errors, timeouts and bodies that are not JSON.
	ErrTransport apperrors.Error = httpclient.ErrTransport
	// ErrMalformedResponse is returned when the response body is not valid JSON.
	ErrMalformedResponse apperrors.Error = ErrTransport.New("malformed response")
	// ErrHTTPStatus is the base of *HTTPStatusError.
	ErrHTTPStatus apperrors.Error = apperrors.New("http status error")
	// ErrService is the base of *ServiceError.
	ErrService apperrors.Error = apperrors.New("service error")
	// ErrAuthentication is returned when the access pair cannot be obtained.
	// The underlying failure is attached and reachable with errors.Is and errors.As.
	ErrAuthentication apperrors.Error = apperrors.New("authentication failed").SetExpandError(true)
)

// failingStatuses are the status codes the service uses to reject a request.
var failingStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusInternalServerError,
}

// HTTPStatusError is returned when the service answers with one of 400, 401,
// 403, 404 or 500. Message is status.message of the body when the service
// sent one.
type HTTPStatusError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Reason)
}

func (e *HTTPStatusError) Unwrap() error {
	return ErrHTTPStatus
}

// ServiceError is returned when the reply carries status.code "error".
type ServiceError struct {
	Message string
}

const genericServiceMessage = "service returned an error"

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return genericServiceMessage
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return ErrService
}

func checkStatus(resp *httpclient.Response) error {
	if slices.Contains(failingStatuses, resp.StatusCode) {
		return newHTTPStatusError(resp)
	}
	return nil
}

func newHTTPStatusError(resp *httpclient.Response) *HTTPStatusError {
	e := &HTTPStatusError{StatusCode: resp.StatusCode, Reason: resp.Reason}
	if gjson.ValidBytes(resp.Body) {
		e.Message = gjson.GetBytes(resp.Body, "status.message").String()
	}
	return e
}

// Error kinds used as metric outcomes.
const (
	outcomeOK             = "ok"
	outcomeParameter      = "parameter"
	outcomeTransport      = "transport"
	outcomeHTTPStatus     = "http_status"
	outcomeService        = "service"
	outcomeAuthentication = "authentication"
	outcomeUnknown        = "unknown"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrAuthentication):
		return outcomeAuthentication
	case errors.Is(err, ErrParameter):
		return outcomeParameter
	case errors.Is(err, ErrHTTPStatus):
		return outcomeHTTPStatus
	case errors.Is(err, ErrService):
		return outcomeService
	case errors.Is(err, ErrTransport):
		return outcomeTransport
	default:
		return outcomeUnknown
	}
}
