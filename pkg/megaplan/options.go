package megaplan

import (
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/tansive/megaplan/internal/common/httpclient"
)

// Option configures a Client.
type Option func(*config)

type config struct {
	host          string
	scheme        string
	debug         bool
	timeout       time.Duration
	insecure      bool
	logger        *zerolog.Logger
	registerer    prometheus.Registerer
	transport     httpclient.Transport
	now           func() time.Time
	access        Access
	traceRequests bool
}

// WithHost replaces the default "{account}.megaplan.ru" host, for on-premise
// installations.
func WithHost(host string) Option {
	return func(c *config) {
		c.host = host
	}
}

// WithBaseURL sets both the scheme and the host from a URL such as
// "https://acme.megaplan.ru". Anything but http and https makes every call
// fail with ErrTransport.
func WithBaseURL(raw string) Option {
	return func(c *config) {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			c.scheme, c.host = raw, ""
			return
		}
		c.scheme, c.host = u.Scheme, u.Host
	}
}

// WithDebug switches the client to plain http once authorized, which is how
// test installations of the service are reached.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}

// WithTimeout bounds every HTTP exchange. The default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate checks.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *config) {
		c.insecure = skip
	}
}

// WithLogger sets the logger. The global zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &l
	}
}

// WithRequestDump makes the transport dump every request and response
// through the logger.
func WithRequestDump(dump bool) Option {
	return func(c *config) {
		c.traceRequests = dump
	}
}

// WithMetrics registers the client collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithTransport replaces the resty based transport.
func WithTransport(t httpclient.Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithClock sets the time source of the Date header.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithAccess starts the client with a previously issued access pair, skipping
// the first authorization.
func WithAccess(a Access) Option {
	return func(c *config) {
		c.access = a
	}
}
