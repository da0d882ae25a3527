package dhus

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Ping runs an empty search to check that the hub is reachable and accepts the
// credentials.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.observe("ping", start, err) }()

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", "*")
	params.Set("rows", "0")

	resp, err := c.get(ctx, c.api, c.endpoint("search", params.Encode()), nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
