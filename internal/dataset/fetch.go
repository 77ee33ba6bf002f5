package dataset

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultFetchTimeout = 30 * time.Second

func loadHTTP(ctx context.Context, loc string, opts Options) (*Dataset, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("parse dataset url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/csv;q=0.9, */*;q=0.5")

	client := opts.HTTPClient
	if client == nil {
		client = newHTTPClient(opts.InsecureTLS)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}

	body, err := readBounded(resp.Body, opts.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}
	return decodeBytes(u.Redacted(), body, opts.Format, resp.Header.Get("Content-Type"), u.Path)
}

func newHTTPClient(insecure bool) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}
	return &http.Client{Transport: tr}
}
