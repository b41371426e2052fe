package tables

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ngmaloney/nz-tides/internal/models"
)

func TestNewHTTPSource(t *testing.T) {
	src := NewHTTPSource("https://example.com/tables/", 0)

	if src.baseURL != "https://example.com/tables" {
		t.Errorf("baseURL = %s, trailing slash should be trimmed", src.baseURL)
	}
	if src.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", src.httpClient.Timeout)
	}
}

func TestHTTPSource_Open(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auckland/2012.csv" {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, aucklandJan1)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second)

	rc, err := src.Open(context.Background(), models.Auckland, 2012)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != aucklandJan1 {
		t.Errorf("Open() content = %q, want %q", data, aucklandJan1)
	}

	_, err = src.Open(context.Background(), models.Auckland, 2099)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() missing table error = %v, want ErrNotFound", err)
	}
}

func TestHTTPSource_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second)

	_, err := src.Open(context.Background(), models.Auckland, 2012)
	if err == nil {
		t.Fatal("Expected error for server failure, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("A server failure must not be reported as a missing table")
	}
}

func TestHTTPSource_NotFoundDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second)

	// gobreaker's default policy opens after more than 5 consecutive failures
	for i := 0; i < 10; i++ {
		_, err := src.Open(context.Background(), models.Nelson, 2012)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("attempt %d: error = %v, want ErrNotFound", i, err)
		}
	}
}
