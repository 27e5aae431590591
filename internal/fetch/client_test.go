package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestNewClient tests the Client constructor.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("defaults create a client", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client == nil {
			t.Fatal("expected non-nil client")
		}
		if !client.verifyTLS {
			t.Error("expected TLS verification to be on by default")
		}
	})

	t.Run("valid proxy address creates client", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient(WithProxy("127.0.0.1:1080"), WithTimeout(time.Second)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	for _, addr := range []string{"127.0.0.1", ":1080", "127.0.0.1:", "localhost:abc", "localhost:0", "localhost:70000"} {
		t.Run("invalid proxy "+addr, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(WithProxy(addr))
			if !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
			}
		})
	}
}

// TestDocURL tests host and path concatenation.
func TestDocURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		host    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain join", "http://localhost:5051", "/swagger.json", "http://localhost:5051/swagger.json", false},
		{"host with base path", "https://api.example.com/v1", "/docs", "https://api.example.com/v1/docs", false},
		{"no scheme", "localhost:5051", "/swagger.json", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DocURL(tt.host, tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFetch tests the doc request against a local server.
func TestFetch(t *testing.T) {
	t.Parallel()

	const doc = `{"swagger":"2.0","paths":{}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/swagger.json":
			_, _ = w.Write([]byte(doc))
		case "/private.json":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "tester" || pass != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("unauthorized"))
				return
			}
			_, _ = w.Write([]byte(doc))
		case "/cookie.json":
			c, err := r.Cookie("session")
			if err != nil || c.Value != "abc" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(doc))
		case "/broken.json":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(WithTimeout(5 * time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("200 returns the body", func(t *testing.T) {
		t.Parallel()

		body, err := client.Fetch(t.Context(), srv.URL+"/swagger.json", Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != doc {
			t.Errorf("expected %q, got %q", doc, body)
		}
	})

	t.Run("404 returns a StatusError", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), srv.URL+"/missing.json", Request{})
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if se.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", se.StatusCode)
		}
		if !strings.Contains(se.Error(), "404") || !strings.Contains(se.Error(), "/missing.json") {
			t.Errorf("expected status and URL in message: %s", se.Error())
		}
	})

	t.Run("basic auth is sent", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), srv.URL+"/private.json", Request{
			Auth: &BasicAuth{Username: "tester", Password: "s3cret"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = client.Fetch(t.Context(), srv.URL+"/private.json", Request{})
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 StatusError, got %v", err)
		}
	})

	t.Run("cookies are sent", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), srv.URL+"/cookie.json", Request{
			Cookies: map[string]string{"session": "abc"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("long error bodies are truncated in the message", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), srv.URL+"/broken.json", Request{})
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if len(se.Body) != 2000 {
			t.Errorf("expected full body to be kept, got %d bytes", len(se.Body))
		}
		if !strings.HasSuffix(se.Error(), "...") {
			t.Errorf("expected truncated message, got %q", se.Error())
		}
	})

	t.Run("body over the limit is an error", func(t *testing.T) {
		t.Parallel()

		small, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		small.maxBodySize = int64(len(doc)) - 1

		if _, err := small.Fetch(t.Context(), srv.URL+"/swagger.json", Request{}); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}

		small.maxBodySize = int64(len(doc))
		body, err := small.Fetch(t.Context(), srv.URL+"/swagger.json", Request{})
		if err != nil {
			t.Fatalf("expected body at the limit to be accepted: %v", err)
		}
		if string(body) != doc {
			t.Errorf("expected %q, got %q", doc, body)
		}
	})

	t.Run("canceled context fails", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := client.Fetch(ctx, srv.URL+"/swagger.json", Request{}); err == nil {
			t.Error("expected error for canceled context")
		}
	})
}

// TestFetchTLS tests certificate verification.
func TestFetchTLS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	t.Run("self-signed certificate is rejected when verifying", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(WithVerifyTLS(true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := client.Fetch(t.Context(), srv.URL, Request{}); err == nil {
			t.Error("expected certificate error")
		}
	})

	t.Run("self-signed certificate is accepted without verification", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(WithVerifyTLS(false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := client.Fetch(t.Context(), srv.URL, Request{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
