// Package upload sends converted workout documents to Garmin Connect. The
// OAuth token is supplied by the caller; obtaining one (login, MFA) is
// delegated to external tooling.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// workoutPath is the workout-service endpoint for creating workouts.
const workoutPath = "/workout-service/workout"

// Client sends workout payloads to the Garmin Connect API over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the Garmin Connect API. token is the OAuth
// bearer token minted by an external login tool.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendWorkout POSTs a workout payload to the workout-service endpoint.
// Retries up to 3 times with exponential backoff on transport failure;
// 4xx responses are not retried (re-sending an invalid document cannot
// succeed).
func (c *Client) SendWorkout(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling workout: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+workoutPath, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("creating workout request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			return nil
		}
		lastErr = fmt.Errorf("workout upload failed (status %d): %s", resp.StatusCode, body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}
