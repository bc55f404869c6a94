package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hl-seeder/monitor"
)

// RESTClient posts JSON bodies to the Hyperliquid API. HTTPClient is
// injectable so tests can point it at an httptest server; Limiter and
// Monitor are optional.
type RESTClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    RateLimiter
	Monitor    *monitor.Monitor
}

// PostJSON sends payload to path and decodes the reply into out.
func (c *RESTClient) PostJSON(path string, payload any, out any) error {
	if c == nil || c.HTTPClient == nil {
		return fmt.Errorf("http client not set")
	}
	if c.Limiter != nil {
		c.Limiter.Wait()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.Monitor.RecordRequest(path)
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	c.Monitor.ObserveLatency(path, time.Since(start))
	if err != nil {
		c.Monitor.RecordError(path)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.Monitor.RecordError(path)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s status %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.Monitor.RecordError(path)
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// NewDefaultHTTPClient provides an http.Client with a sane timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
