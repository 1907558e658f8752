package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMalformedPayload = errors.New("malformed payload")
)

// NewClient returns the shared outbound client. Every request is bounded by timeout
// and none is retried; a failed source waits for the next cycle.
func NewClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "weather-fx-exporter")
	return client
}

// getJSON issues a GET and decodes the body into out. It reports the round trip time
// even when decoding fails.
func getJSON(ctx context.Context, client *resty.Client, url string, params, headers map[string]string, out interface{}) (time.Duration, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", url, err)
	}

	if resp.IsError() {
		return resp.Time(), fmt.Errorf("GET %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return resp.Time(), fmt.Errorf("GET %s: %w: %v", url, ErrMalformedPayload, err)
	}
	return resp.Time(), nil
}
