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

func TestFetchPage(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchesHTML", func(t *testing.T) {
		var gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer server.Close()

		client := NewClient("Insightful/test", 5*time.Second, 0, 0)
		page, err := client.FetchPage(ctx, server.URL)
		if err != nil {
			t.Fatalf("Failed to fetch: %v", err)
		}
		if !strings.Contains(string(page.Body), "hello") {
			t.Errorf("Unexpected body: %q", page.Body)
		}
		if gotUserAgent != "Insightful/test" {
			t.Errorf("Expected custom User-Agent, got %q", gotUserAgent)
		}
	})

	t.Run("RejectsNonHTML", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		client := NewClient("Insightful/test", 5*time.Second, 0, 0)
		if _, err := client.FetchPage(ctx, server.URL); !errors.Is(err, ErrNotHTML) {
			t.Errorf("Expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("RejectsErrorStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewClient("Insightful/test", 5*time.Second, 0, 0)
		if _, err := client.FetchPage(ctx, server.URL); err == nil {
			t.Error("Expected error for 404 response")
		}
	})

	t.Run("RejectsOversizedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
		}))
		defer server.Close()

		client := NewClient("Insightful/test", 5*time.Second, 0, 1024)
		if _, err := client.FetchPage(ctx, server.URL); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("Expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("RejectsBadScheme", func(t *testing.T) {
		client := NewClient("Insightful/test", 5*time.Second, 0, 0)
		if _, err := client.FetchPage(ctx, "ftp://example.com/file"); err == nil {
			t.Error("Expected error for unsupported scheme")
		}
	})

	t.Run("RecordsFinalURLAfterRedirect", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/final", http.StatusFound)
		})
		mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>done</body></html>"))
		})

		client := NewClient("Insightful/test", 5*time.Second, 0, 0)
		page, err := client.FetchPage(ctx, server.URL+"/start")
		if err != nil {
			t.Fatalf("Failed to fetch: %v", err)
		}
		if !strings.HasSuffix(page.FinalURL, "/final") {
			t.Errorf("Expected final URL after redirect, got %q", page.FinalURL)
		}
	})
}
