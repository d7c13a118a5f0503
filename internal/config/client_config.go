package config

import "time"

type Client struct {
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT,default=0s"`
	SharedRefresh bool          `env:"SHARED_REFRESH,default=false"`
}

var _ ClientConfig = Client{}

// GetHTTPTimeout is zero unless configured, leaving the transport defaults in place.
func (c Client) GetHTTPTimeout() time.Duration {
	return c.HTTPTimeout
}

// GetSharedRefresh reports whether concurrent refreshes for the same refresh
// token share a single backend call.
func (c Client) GetSharedRefresh() bool {
	return c.SharedRefresh
}
