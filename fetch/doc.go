// SPDX-License-Identifier: EPL-2.0

// Package fetch downloads tracks given by URL.
//
// Requests honour the caller's context, a whole-request timeout and a body
// size limit. HTTP/3 is available through github.com/quic-go/quic-go:
//
//	c := fetch.New(fetch.WithHTTP3(nil), fetch.WithTimeout(30*time.Second))
//	defer c.Close()
//	data, err := c.Fetch(ctx, "https://example.com/track.ogg")
//	if errors.Is(err, fetch.ErrNetwork) {
//		// unreachable, non-2xx, or too large
//	}
package fetch
