package httpclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tansive/megaplan/internal/common/apperrors"
)

// DefaultTimeout bounds every exchange when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var (
	// ErrTransport is the base of every failure below HTTP.
	ErrTransport apperrors.Error = apperrors.New("transport failure")
	// ErrUnsupportedScheme is returned for URLs that are neither http nor https.
	ErrUnsupportedScheme apperrors.Error = ErrTransport.New("unsupported URL scheme")
	// ErrInvalidURL is returned for URLs that cannot be parsed.
	ErrInvalidURL apperrors.Error = ErrTransport.New("invalid URL")
	// ErrRequestFailed wraps connection, TLS and timeout errors.
	ErrRequestFailed apperrors.Error = ErrTransport.New("request failed").SetExpandError(true)
)

// Request is one HTTP exchange. A non-empty Body is sent as is; the caller
// sets the matching Content-Type header.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   string
}

// Response is the raw outcome of an exchange.
type Response struct {
	StatusCode int
	Reason     string // "Not Found" for a 404
	Body       []byte
}

// ClientOptions configures the underlying resty client.
type ClientOptions struct {
	Timeout               time.Duration  // 0 means DefaultTimeout
	DisableCertValidation bool           // skip TLS verification, for on-premise installs with self-signed certs
	Debug                 bool           // dump requests and responses through Logger
	Logger                zerolog.Logger // destination of resty's own diagnostics
}

// HTTPClient is the resty based Transport.
type HTTPClient struct {
	client *resty.Client
}

// NewClient creates a Transport with the given options.
func NewClient(opts ClientOptions) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetLogger(restyLogger{l: opts.Logger}).
		SetDebug(opts.Debug)

	if opts.DisableCertValidation {
		client.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	return &HTTPClient{client: client}
}

// Do sends req and returns the response whatever its status code.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	if err := CheckScheme(req.URL); err != nil {
		return nil, err
	}

	r := c.client.R().
		SetContext(ctx).
		SetHeaders(req.Header)
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
		if req.Body != "" {
			method = http.MethodPost
		}
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		return nil, ErrRequestFailed.Err(err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Reason:     reasonPhrase(resp.StatusCode(), resp.Status()),
		Body:       resp.Body(),
	}, nil
}

// CheckScheme accepts http and https URLs. A URL without a scheme is rejected
// as well, since the client always builds absolute URLs.
func CheckScheme(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL.Err(err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrUnsupportedScheme.Msg(`"` + u.Scheme + `" is not supported`)
	}
}

// reasonPhrase extracts "Not Found" from a status line such as "404 Not Found",
// falling back to the standard text for the code.
func reasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}

type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug().Msgf(format, v...) }
