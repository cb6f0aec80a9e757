package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// HTTP client tuning shared by every collector client.
	defaultHTTPTimeout           = 30 * time.Second
	defaultMaxIdleConns          = 100
	defaultMaxIdleConnsPerHost   = 10
	defaultIdleConnTimeout       = 90 * time.Second
	defaultResponseHeaderTimeout = 30 * time.Second
	defaultTLSHandshakeTimeout   = 10 * time.Second
)

// apiKeyHeader carries the collector API key on ingest requests.
const apiKeyHeader = "X-API-Key"

// newIngestClient creates the HTTP client used for collector ingestion, with
// sane keep-alive and timeout settings for a long-lived background shipper.
func newIngestClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ResponseHeaderTimeout: defaultResponseHeaderTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		},
	}
}

// httpShipper POSTs batches as newline-delimited JSON to the ingest URL.
type httpShipper struct {
	client *http.Client
	url    string
	apiKey string
}

func newHTTPShipper(target *Target) *httpShipper {
	return &httpShipper{
		client: newIngestClient(),
		url:    target.Raw,
	}
}

// Ship implements Shipper.
func (s *httpShipper) Ship(ctx context.Context, events [][]byte) error {
	body := bytes.Join(events, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ingest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if s.apiKey != "" {
		req.Header.Set(apiKeyHeader, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ship log batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector rejected batch: status %d", resp.StatusCode)
	}
	return nil
}

// Close implements Shipper.
func (s *httpShipper) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
