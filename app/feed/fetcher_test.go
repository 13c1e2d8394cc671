package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_Run(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	data, err := NewFetcher(server.Client(), "Newsdesk/1.0").Run(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != rssFixture {
		t.Error("Expected body to be returned unchanged")
	}
	if userAgent != "Newsdesk/1.0" {
		t.Errorf("Expected user agent 'Newsdesk/1.0', got '%s'", userAgent)
	}
}

func TestFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(nil, "test").Run(context.Background(), server.URL, time.Second)
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "HTTP error: 503") {
		t.Errorf("Expected HTTP status in error, got: %v", err)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewFetcher(nil, "test").Run(context.Background(), server.URL, 50*time.Millisecond)
	if err == nil {
		t.Error("Expected timeout error")
	}
}
