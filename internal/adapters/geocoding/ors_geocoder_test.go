package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestORSGeocoderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "key" {
			t.Errorf("missing api key header")
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-83.36,33.95]}}]}`))
	}))
	defer srv.Close()

	g, err := NewORSGeocoder("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.baseURL = srv.URL
	g.backoff = time.Millisecond

	got, err := g.Geocode(context.Background(), "Athens, GA")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if got.Lat != 33.95 || got.Lng != -83.36 {
		t.Fatalf("got %+v, want {33.95 -83.36}", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestORSGeocoderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Access to this API has been disallowed"}}`))
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("key")
	g.baseURL = srv.URL
	g.backoff = time.Millisecond

	_, err := g.Geocode(context.Background(), "Athens, GA")
	var oe *ORSError
	if !errors.As(err, &oe) {
		t.Fatalf("err = %v, want *ORSError", err)
	}
	if oe.Status != http.StatusForbidden || oe.Message != "Access to this API has been disallowed" {
		t.Fatalf("error = %+v", oe)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestORSGeocoderHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
			return
		}
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-83.37,33.95]}}]}`))
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("key")
	g.baseURL = srv.URL
	g.backoff = time.Millisecond

	start := time.Now()
	if _, err := g.Geocode(context.Background(), "Tate Center"); err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if waited := time.Since(start); waited < time.Second {
		t.Fatalf("waited %v, want at least the 1s Retry-After", waited)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestORSGeocoderQueryErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"geocoding":{"errors":["invalid param 'boundary.country'"]},"features":[]}`))
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("key")
	g.baseURL = srv.URL

	_, err := g.Geocode(context.Background(), "Athens, GA")
	var oe *ORSError
	if !errors.As(err, &oe) || oe.Message != "invalid param 'boundary.country'" {
		t.Fatalf("err = %v, want pelias query error", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestORSGeocoderNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("text"); got != "Nowhere Special" {
			t.Errorf("text = %q, want normalized address", got)
		}
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	g, _ := NewORSGeocoder("key")
	g.baseURL = srv.URL

	if _, err := g.Geocode(context.Background(), "  Nowhere   Special "); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}
