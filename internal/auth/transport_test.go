package auth

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kshehadeh/pyfluence/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func emptyResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}
}

func TestTransportSetsBasicAuth(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	transport := NewTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return emptyResponse(), nil
	}), config.Credentials{Username: "user", Password: "secret"})

	req, _ := http.NewRequest(http.MethodGet, "https://confluence.example.com/rest/api/space", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip error: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:secret"))
	if got := captured.Header.Get("Authorization"); got != want {
		t.Fatalf("unexpected auth header %q", got)
	}
	if captured.Header.Get("Accept") != "application/json" {
		t.Fatalf("expected Accept header to default to JSON")
	}
}

func TestTransportDoesNotMutateOriginalRequest(t *testing.T) {
	t.Parallel()

	transport := NewTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return emptyResponse(), nil
	}), config.Credentials{Username: "user", Password: "secret"})

	req, _ := http.NewRequest(http.MethodGet, "https://confluence.example.com", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip error: %v", err)
	}
	if req.Header.Get("Authorization") != "" {
		t.Fatalf("original request was mutated")
	}
}

func TestTransportPreservesExistingAccept(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	transport := NewTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return emptyResponse(), nil
	}), config.Credentials{Username: "user", Password: "secret"})

	req, _ := http.NewRequest(http.MethodGet, "https://confluence.example.com", nil)
	req.Header.Set("Accept", "text/plain")
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip error: %v", err)
	}
	if captured.Header.Get("Accept") != "text/plain" {
		t.Fatalf("Accept header was overridden")
	}
}

func TestTransportRequiresCredentials(t *testing.T) {
	t.Parallel()

	transport := NewTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("request should not be sent without credentials")
		return nil, nil
	}), config.Credentials{Username: "user"})

	req, _ := http.NewRequest(http.MethodGet, "https://confluence.example.com", nil)
	if _, err := transport.RoundTrip(req); err == nil {
		t.Fatalf("expected error for missing password")
	}
}
