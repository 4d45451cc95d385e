// Package ingest feeds observations into a running steady server, either
// one at a time or streamed from JSONL input.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultServerURL = "http://127.0.0.1:37911"
	httpTimeout      = 5 * time.Second
)

// Client talks to the steady server.
type Client struct {
	http      *http.Client
	serverURL string
}

// NewClient creates an ingest HTTP client.
// Respects STEADY_URL env var, falls back to http://127.0.0.1:37911.
func NewClient() *Client {
	url := os.Getenv("STEADY_URL")
	if url == "" {
		url = defaultServerURL
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: url,
	}
}

// NewClientURL creates an ingest client against an explicit base URL.
func NewClientURL(url string) *Client {
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: url,
	}
}

// Post sends a POST request with JSON body. Returns response body.
func (c *Client) Post(path string, body []byte) ([]byte, error) {
	resp, err := c.http.Post(c.serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return data, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

// Observe posts a single observation for a signal.
func (c *Client) Observe(signal string, value float64) error {
	body, err := json.Marshal(map[string]float64{"value": value})
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}
	_, err = c.Post("/api/signals/"+signal+"/observations", body)
	return err
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy() bool {
	resp, err := c.http.Get(c.serverURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
