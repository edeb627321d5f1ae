// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 100 << 20

	// FallbackName is used when a URL has no usable last path segment.
	FallbackName = "Link track"
)

// Client downloads audio files.
type Client struct {
	http     *http.Client
	h3       *http3.Transport
	maxBytes int64
	log      *logrus.Logger
}

type Option func(*Client)

// WithTimeout bounds a whole request, body included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithHTTP3 sends requests over HTTP/3. A nil config uses the system roots.
func WithHTTP3(tlsCfg *tls.Config) Option {
	return func(c *Client) {
		c.h3 = &http3.Transport{TLSClientConfig: tlsCfg}
		c.http.Transport = c.h3
	}
}

// WithTransport replaces the round tripper, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
		c.h3 = nil
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
		log:      logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch GETs rawURL and returns the body. Any failure, including a non-2xx
// status or an oversized body, wraps ErrNetwork.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrNetwork, req.URL.Redacted(), resp.Status)
	}
	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("%w: %w: %d bytes", ErrNetwork, ErrTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrNetwork, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: %w: over %d bytes", ErrNetwork, ErrTooLarge, c.maxBytes)
	}

	c.log.WithFields(logrus.Fields{
		"url":   req.URL.Redacted(),
		"bytes": len(data),
		"proto": resp.Proto,
	}).Debug("fetched")

	return data, nil
}

// Close releases the HTTP/3 transport, if any.
func (c *Client) Close() error {
	if c.h3 == nil {
		return nil
	}
	return c.h3.Close()
}

// NameFromURL is the unescaped last path segment of rawURL, or
// FallbackName.
func NameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.LastIndex(rawURL, "/"); i >= 0 {
			rawURL = rawURL[i+1:]
		}
		if rawURL == "" {
			return FallbackName
		}
		return rawURL
	}

	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return FallbackName
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return FallbackName
	}
	return name
}
