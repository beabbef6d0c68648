// Package megaplan is a client for the Megaplan project-management API.
//
// Requests are signed with the access pair the service issues on
// authorization. The pair is obtained lazily: the first call on a fresh
// Client authorizes with the account login and password, and concurrent first
// calls share a single authorization. Every call returns the decoded JSON
// reply, either as a Response or as typed records.
//
// Errors are matchable with errors.Is against ErrParameter, ErrTransport,
// ErrHTTPStatus, ErrService and ErrAuthentication, and with errors.As against
// *HTTPStatusError and *ServiceError.
package megaplan

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tansive/megaplan/internal/common/formparams"
	"github.com/tansive/megaplan/internal/common/httpclient"
	"github.com/tansive/megaplan/internal/common/logtrace"
	"github.com/tansive/megaplan/internal/common/signature"
	"golang.org/x/sync/singleflight"
)

const (
	defaultDomain = "megaplan.ru"
	defaultScheme = "https"
	debugScheme   = "http"
)

// API groups of the service.
const (
	commonAPI  = "BumsCommonApiV01/"
	projectAPI = "BumsProjectApiV01/"
	staffAPI   = "BumsStaffApiV01/"
	taskAPI    = "BumsTaskApiV01/"
)

// Endpoint prefixes.
const (
	userPrefix       = commonAPI + "User/"
	taskPrefix       = taskAPI + "Task/"
	severityPrefix   = taskAPI + "Severity/"
	projectPrefix    = projectAPI + "Project/"
	employeePrefix   = staffAPI + "Employee/"
	departmentPrefix = staffAPI + "Department/"
	commentPrefix    = commonAPI + "Comment/"
	favoritePrefix   = commonAPI + "Favorite/"
	searchPrefix     = commonAPI + "Search/"
	informerPrefix   = commonAPI + "Informer/"
)

// browserHeaders are sent with every request.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows; U; Windows NT 6.0; ru; rv:1.9.1.7) Gecko/20091221 Firefox/3.5.7",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "ru,en-us;q=0.7,en;q=0.3",
	"Accept-Charset":  "utf-8;q=0.7,*;q=0.7",
}

// Client talks to one Megaplan account. It is safe for concurrent use.
type Client struct {
	account  string
	login    string
	password string
	host     string
	scheme   string // configured scheme, used for authorization
	debug    bool

	transport httpclient.Transport
	logger    zerolog.Logger
	metrics   *metrics
	now       func() time.Time

	session session
	authFly singleflight.Group
}

// NewClient creates a client for account, authenticating as login. No request
// is sent until the first call.
func NewClient(account, login, password string, opts ...Option) (*Client, error) {
	cfg := config{
		scheme:  defaultScheme,
		timeout: httpclient.DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.host == "" {
		if account == "" {
			return nil, ErrParameter.Msg("account or host is required")
		}
		cfg.host = account + "." + defaultDomain
	}
	if login == "" && cfg.access.IsZero() {
		return nil, ErrParameter.Msg("login is required")
	}

	logger := log.Logger
	if cfg.logger != nil {
		logger = *cfg.logger
	}
	logger = logger.With().Str("component", "megaplan").Str("host", cfg.host).Logger()

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}

	transport := cfg.transport
	if transport == nil {
		transport = httpclient.NewClient(httpclient.ClientOptions{
			Timeout:               cfg.timeout,
			DisableCertValidation: cfg.insecure,
			Debug:                 cfg.traceRequests,
			Logger:                logger,
		})
	}

	c := &Client{
		account:   account,
		login:     login,
		password:  password,
		host:      cfg.host,
		scheme:    cfg.scheme,
		debug:     cfg.debug,
		transport: transport,
		logger:    logger,
		metrics:   m,
		now:       cfg.now,
	}
	c.session.setScheme(cfg.scheme)
	if !cfg.access.IsZero() {
		c.SetAccess(cfg.access)
	}
	return c, nil
}

// Account returns the account name the client was created for.
func (c *Client) Account() string {
	return c.account
}

// Host returns the host requests are sent to.
func (c *Client) Host() string {
	return c.host
}

// BaseURL returns the scheme and host requests are currently sent to.
func (c *Client) BaseURL() string {
	_, _, scheme := c.session.get()
	return scheme + "://" + c.host + "/"
}

// Call sends a signed request to uri, a path relative to the host such as
// "BumsTaskApiV01/Task/card.api?Id=1". A non-empty form is sent as a POST
// body, otherwise the request is a GET. The client authorizes first when it
// holds no access pair.
func (c *Client) Call(ctx context.Context, uri string, form url.Values) (*Response, error) {
	ctx, _ = logtrace.WithTraceID(ctx)
	start := time.Now()
	resp, err := c.call(ctx, uri, form)
	c.metrics.observeRequest(endpointOf(uri), outcomeOf(err), time.Since(start))
	return resp, err
}

func (c *Client) call(ctx context.Context, uri string, form url.Values) (*Response, error) {
	l := logtrace.Logger(ctx, c.logger)

	if err := c.ensureAuthorized(ctx); err != nil {
		return nil, err
	}

	var body string
	if len(form) > 0 {
		body = formparams.EncodeBody(form)
	}
	sc := signature.NewContext(c.host, "/"+strings.TrimPrefix(uri, "/"), body, c.now())

	// a concurrent Logout may have dropped the pair since ensureAuthorized
	accessID, secretKey, scheme := c.session.get()
	if accessID == "" || secretKey == "" {
		return nil, ErrAuthentication.Msg("not authenticated: the access pair was dropped")
	}

	req := httpclient.Request{
		Method: sc.Method,
		URL:    scheme + "://" + sc.Host + sc.URI,
		Header: requestHeaders(sc),
		Body:   body,
	}
	req.Header["X-Authorization"] = sc.AuthorizationHeader(accessID, secretKey)

	l.Debug().Str("method", req.Method).Str("uri", sc.URI).Msg("sending request")
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		l.Error().Err(err).Str("uri", sc.URI).Msg("request failed")
		return nil, err
	}
	l.Debug().Int("status", resp.StatusCode).Str("uri", sc.URI).Msg("received response")

	return decodeReply(resp)
}

// requestHeaders builds the header set of a signed request. The Date header is
// the date that was signed.
func requestHeaders(sc signature.Context) map[string]string {
	h := make(map[string]string, len(browserHeaders)+4)
	for k, v := range browserHeaders {
		h[k] = v
	}
	h["Date"] = sc.Date
	switch sc.Method {
	case http.MethodGet:
		h["Accept"] = "application/json"
	case http.MethodPost:
		h["Content-MD5"] = sc.ContentMD5
		h["Content-Type"] = sc.ContentType
	}
	return h
}

// decodeReply turns a raw response into a Response, mapping failing status
// codes and service errors.
func decodeReply(resp *httpclient.Response) (*Response, error) {
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	r, err := newResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := r.serviceError(); err != nil {
		return nil, err
	}
	return r, nil
}

// endpointOf strips the query from uri for use as a metric label.
func endpointOf(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}
	return strings.TrimPrefix(uri, "/")
}
