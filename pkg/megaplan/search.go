package megaplan

import (
	"context"
	"net/url"
)

// Search runs a quick search over employees, tasks and projects. The service
// answers an empty query with "Empty query" and a query without matches with
// "No results", both as *ServiceError.
func (c *Client) Search(ctx context.Context, qs string) (*SearchResult, error) {
	result := &SearchResult{}
	if err := c.fetch(ctx, searchPrefix+"quick.api", url.Values{"qs": {qs}}, "data", result); err != nil {
		return nil, err
	}
	return result, nil
}
