// Package eventsapi reads events from a running campus activity API, so a
// discovery client can search the same store the server exposes.
package eventsapi

import (
	"campus-activity-service/internal/api/dto"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	session *http.Client
	baseURL string
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("events api: base URL is required")
	}
	return &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}, nil
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("events api: status %d: %s", e.Code, e.Body)
}

// ListEvents fetches GET /api/events.
func (c *Client) ListEvents(ctx context.Context) (_ []domain.Event, err error) {
	defer obs.Time(ctx, "eventsapi.ListEvents")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out dto.ListEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]domain.Event, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, e.ToDomain())
	}
	return events, nil
}
