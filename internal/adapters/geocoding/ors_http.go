package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	orsMaxAttempts   = 4
	orsMaxBodyBytes  = 1 << 20
	orsMaxRetryAfter = 5 * time.Second
)

// ErrNoMatch reports that the address was understood but matched nothing.
var ErrNoMatch = errors.New("no geocode match")

// ORSError is a geocoding request ORS rejected, either with an HTTP error
// status or with Pelias query errors in an otherwise successful response.
type ORSError struct {
	Address string
	Status  int
	Message string
}

func (e *ORSError) Error() string {
	return fmt.Sprintf("ors geocode %q: status %d: %s", e.Address, e.Status, e.Message)
}

// Temporary reports whether the same request may succeed later.
func (e *ORSError) Temporary() bool {
	switch e.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// peliasResponse is the subset of the /geocode/search GeoJSON we read.
type peliasResponse struct {
	Geocoding struct {
		Errors []string `json:"errors"`
	} `json:"geocoding"`
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// search runs one /geocode/search query. Rate limits, 5xx responses and
// network errors are retried with exponential backoff; a Retry-After header
// stretches the wait up to orsMaxRetryAfter.
func (o *ORSGeocoder) search(ctx context.Context, text string) (peliasResponse, error) {
	backoff := o.backoff
	var lastErr error

	for attempt := 1; attempt <= orsMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return peliasResponse{}, err
		}

		res, wait, err := o.searchOnce(ctx, text)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) || attempt == orsMaxAttempts {
			break
		}

		if wait < backoff {
			wait = backoff
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return peliasResponse{}, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return peliasResponse{}, lastErr
}

func (o *ORSGeocoder) searchOnce(ctx context.Context, text string) (peliasResponse, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return peliasResponse{}, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")

	q := req.URL.Query()
	q.Set("text", text)
	q.Set("boundary.country", o.country)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.session.Do(req)
	if err != nil {
		return peliasResponse{}, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, orsMaxBodyBytes))
	if err != nil {
		return peliasResponse{}, 0, fmt.Errorf("read geocode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return peliasResponse{}, retryAfter(resp.Header), &ORSError{
			Address: text,
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		}
	}

	var decoded peliasResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return peliasResponse{}, 0, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Geocoding.Errors) > 0 {
		return peliasResponse{}, 0, &ORSError{
			Address: text,
			Status:  resp.StatusCode,
			Message: strings.Join(decoded.Geocoding.Errors, "; "),
		}
	}
	return decoded, 0, nil
}

func retryable(err error) bool {
	var oe *ORSError
	if errors.As(err, &oe) {
		return oe.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryAfter reads a delay-seconds Retry-After header.
func retryAfter(h http.Header) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || n <= 0 {
		return 0
	}
	return min(time.Duration(n)*time.Second, orsMaxRetryAfter)
}

// errorMessage extracts the message from the error bodies ORS returns:
// {"error":{"code":..,"message":..}}, {"error":"..."} or Pelias
// {"geocoding":{"errors":[..]}}. Anything else is returned trimmed.
func errorMessage(body []byte) string {
	var shaped struct {
		Error     json.RawMessage `json:"error"`
		Geocoding struct {
			Errors []string `json:"errors"`
		} `json:"geocoding"`
	}
	if json.Unmarshal(body, &shaped) == nil {
		if len(shaped.Geocoding.Errors) > 0 {
			return strings.Join(shaped.Geocoding.Errors, "; ")
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(shaped.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if json.Unmarshal(shaped.Error, &s) == nil && s != "" {
			return s
		}
	}
	return strings.TrimSpace(string(body))
}
