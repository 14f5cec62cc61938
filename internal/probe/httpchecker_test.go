package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	out := chk.Check(context.Background(), s.URL)

	if !out.Up() {
		t.Fatalf("expected up, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want 200, got %d", out.StatusCode)
	}
	if out.ConnectionFailure {
		t.Fatal("2xx must not be a connection failure")
	}
	if out.ResponseTimeMs < 0 {
		t.Fatalf("negative response time: %d", out.ResponseTimeMs)
	}
}

func TestHTTPChecker_ServerError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	out := chk.Check(context.Background(), s.URL)

	if out.Up() {
		t.Fatal("503 must classify as down")
	}
	if out.ConnectionFailure {
		t.Fatal("an HTTP response is never a connection failure")
	}
	if out.StatusCode != 503 {
		t.Fatalf("want 503, got %d", out.StatusCode)
	}
}

func TestHTTPChecker_ClientErrorIsUp(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer s.Close()

	chk := NewHTTPChecker(2 * time.Second)
	out := chk.Check(context.Background(), s.URL)

	// The server answered; 4xx counts as up.
	if !out.Up() {
		t.Fatalf("404 should classify as up, got %+v", out)
	}
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	chk := NewHTTPChecker(1 * time.Second)
	out := chk.Check(context.Background(), url)

	if !out.ConnectionFailure {
		t.Fatal("refused connection must set ConnectionFailure")
	}
	if out.StatusCode != 0 {
		t.Fatalf("no response means no status code, got %d", out.StatusCode)
	}
	if out.Err == "" {
		t.Fatal("expected an error message")
	}
	if out.Up() {
		t.Fatal("connection failure must classify as down")
	}
}

func TestHTTPChecker_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer s.Close()

	chk := NewHTTPChecker(50 * time.Millisecond)
	out := chk.Check(context.Background(), s.URL)

	if !out.ConnectionFailure {
		t.Fatal("timeout must set ConnectionFailure")
	}
	if out.Up() {
		t.Fatal("timeout must classify as down")
	}
}
