// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.wav":
			_, _ = w.Write(payload)
		case "/missing.wav":
			http.NotFound(w, r)
		case "/stream.wav":
			// No Content-Length, so the limit is enforced while reading.
			w.(http.Flusher).Flush()
			_, _ = w.Write(payload)
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name     string
		path     string
		maxBytes int64
		wantErr  error
		wantLen  int
	}{
		{"ok", "/ok.wav", 0, nil, len(payload)},
		{"exact limit", "/ok.wav", int64(len(payload)), nil, len(payload)},
		{"not found", "/missing.wav", 0, ErrNetwork, 0},
		{"declared too large", "/ok.wav", 999, ErrTooLarge, 0},
		{"streamed too large", "/stream.wav", 500, ErrTooLarge, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New(WithMaxBytes(tt.maxBytes), WithTransport(srv.Client().Transport), WithLogger(quietLogger()))
			data, err := c.Fetch(context.Background(), srv.URL+tt.path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrNetwork) {
					t.Fatalf("Fetch() error = %v, want %v wrapping ErrNetwork", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(data) != tt.wantLen {
				t.Errorf("len(data) = %d, want %d", len(data), tt.wantLen)
			}
		})
	}
}

func TestClient_FetchCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(WithTransport(srv.Client().Transport), WithLogger(quietLogger()))
	_, err := c.Fetch(ctx, srv.URL)
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Fetch() error = %v, want ErrNetwork and DeadlineExceeded", err)
	}
}

func TestClient_FetchBadURL(t *testing.T) {
	t.Parallel()

	_, err := New().Fetch(context.Background(), "://nowhere")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Fetch() error = %v, want ErrNetwork", err)
	}
}

func TestClient_HTTP3Close(t *testing.T) {
	t.Parallel()

	c := New(WithHTTP3(nil))
	if c.h3 == nil {
		t.Fatal("WithHTTP3 did not install an HTTP/3 transport")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := New().Close(); err != nil {
		t.Errorf("Close() without HTTP/3 error = %v", err)
	}
}

func TestNameFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/music/song.mp3", "song.mp3"},
		{"https://example.com/music/song%20two.ogg?dl=1", "song two.ogg"},
		{"https://example.com/", FallbackName},
		{"https://example.com", FallbackName},
		{"https://example.com/album/", FallbackName},
		{"", FallbackName},
		{"://bad/track.wav", "track.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := NameFromURL(tt.in); got != tt.want {
				t.Errorf("NameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
