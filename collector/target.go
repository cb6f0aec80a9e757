// Package collector implements the remote log collector sink: a batching
// zapcore.Core that ships encoded records to an external ingest endpoint over
// HTTP, or to a Redis stream. Shipping is best-effort; a slow or unreachable
// collector never blocks or fails the logging caller.
package collector

import (
	"fmt"
	"net/url"
	"strings"
)

// Target is a validated remote collector destination.
type Target struct {
	Raw string
	URL *url.URL
}

// Parse validates a collector URL. The value must parse as an absolute URL
// with a host and one of the supported schemes. Callers that want the
// "silently disable on bad URL" behavior check the error themselves.
func Parse(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("collector URL is blank")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse collector URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("collector URL %q is not absolute", raw)
	}

	switch u.Scheme {
	case "http", "https", "redis", "rediss":
	default:
		return nil, fmt.Errorf("unsupported collector scheme %q", u.Scheme)
	}

	return &Target{Raw: raw, URL: u}, nil
}

// IsRedis reports whether the target is a Redis stream rather than an HTTP
// ingest endpoint.
func (t *Target) IsRedis() bool {
	return t.URL.Scheme == "redis" || t.URL.Scheme == "rediss"
}
