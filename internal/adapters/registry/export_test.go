package registry

import "time"

// SetClock replaces the time source used for cache freshness.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}
