package youtube

import (
	"net/http"
	"strings"
)

type Option func(*Client)

// WithHTTPClient reemplaza el cliente del scraping y de kkdai (tests, proxies).
// nil deja el cliente por defecto con timeout de 10s.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithBaseURL apunta el scraping de /results a otro host; kkdai no lo usa.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}
