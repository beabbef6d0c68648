// Package httpclient performs single HTTP exchanges for the Megaplan client:
// one method, URL, header set and optional urlencoded body in; status code,
// reason phrase and raw body out. It knows nothing about signing or JSON.
package httpclient

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks github.com/tansive/megaplan/internal/common/httpclient Transport

import (
	"context"
)

// Transport sends one request and returns the raw response. Implementations
// return an error only for failures below HTTP (bad scheme, connection,
// timeout); any status code the server answers with is a valid Response.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Verify that HTTPClient implements Transport.
var _ Transport = &HTTPClient{}
