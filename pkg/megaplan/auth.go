package megaplan

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tansive/megaplan/internal/common/formparams"
	"github.com/tansive/megaplan/internal/common/httpclient"
	"github.com/tansive/megaplan/internal/common/logtrace"
	"github.com/tansive/megaplan/internal/common/signature"
)

const authorizeKey = "authorize"

// IsAuthenticated reports whether the client holds an access pair.
func (c *Client) IsAuthenticated() bool {
	return c.session.authenticated()
}

// Access returns the current access pair, zero when not authenticated.
func (c *Client) Access() Access {
	accessID, secretKey, _ := c.session.get()
	return Access{AccessID: accessID, SecretKey: secretKey}
}

// SetAccess installs an access pair obtained earlier, for example one stored
// by a previous process. An incomplete pair logs the client out.
func (c *Client) SetAccess(a Access) {
	c.session.set(a.AccessID, a.SecretKey)
	if !a.IsZero() && c.debug {
		c.session.setScheme(debugScheme)
	}
}

// Logout drops the access pair and returns to the configured scheme. The
// next call authorizes again.
func (c *Client) Logout() {
	c.session.clear()
	c.session.setScheme(c.scheme)
}

// Authorize exchanges the login and password for an access pair. Concurrent
// callers share one request, which is not cancelled with any single caller's
// context. A caller whose ctx ends returns ctx.Err() without affecting the
// others. On failure the client stays unauthenticated and the error wraps
// ErrAuthentication together with the underlying failure.
func (c *Client) Authorize(ctx context.Context) error {
	return c.shareAuthorization(ctx, false)
}

// ensureAuthorized authorizes once if the client has no access pair.
func (c *Client) ensureAuthorized(ctx context.Context) error {
	if c.IsAuthenticated() {
		return nil
	}
	return c.shareAuthorization(ctx, true)
}

func (c *Client) shareAuthorization(ctx context.Context, lazy bool) error {
	shared := context.WithoutCancel(ctx)
	ch := c.authFly.DoChan(authorizeKey, func() (any, error) {
		if lazy && c.IsAuthenticated() {
			return nil, nil
		}
		return nil, c.authorize(shared)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) authorize(ctx context.Context) error {
	ctx, _ = logtrace.WithTraceID(ctx)
	l := logtrace.Logger(ctx, c.logger)

	err := c.requestAccess(ctx)
	c.metrics.observeAuthorization(outcomeOf(err))
	if err != nil {
		c.session.clear()
		l.Error().Err(err).Str("login", c.login).Msg("authorization failed")
		return err
	}
	l.Info().Str("login", c.login).Msg("authorized")
	return nil
}

func (c *Client) requestAccess(ctx context.Context) error {
	if c.login == "" {
		return ErrAuthentication.Msg("login is not set")
	}

	body := formparams.EncodeBody(url.Values{
		"Login":    {c.login},
		"Password": {signature.PasswordHash(c.password)},
	})
	header := make(map[string]string, len(browserHeaders)+1)
	for k, v := range browserHeaders {
		header[k] = v
	}
	header["Content-Type"] = signature.FormContentType

	resp, err := c.transport.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.scheme + "://" + c.host + "/" + userPrefix + "authorize.api",
		Header: header,
		Body:   body,
	})
	if err != nil {
		return authError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return authError(newHTTPStatusError(resp))
	}
	r, err := decodeReply(resp)
	if err != nil {
		return authError(err)
	}

	accessID := r.Get("data.AccessId").String()
	secretKey := r.Get("data.SecretKey").String()
	if accessID == "" || secretKey == "" {
		return ErrAuthentication.Msg("reply carries no access pair")
	}

	c.session.set(accessID, secretKey)
	if c.debug {
		c.session.setScheme(debugScheme)
	} else {
		c.session.setScheme(c.scheme)
	}
	return nil
}

func authError(err error) error {
	return ErrAuthentication.MsgErr("authentication failed: "+err.Error(), err)
}
