// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// Open starts a GET request and returns the body unread, with the
// Content-Length (-1 when unknown). client defaults to http.DefaultClient.
func Open(ctx context.Context, client *http.Client, url string) (io.ReadCloser, int64, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("stream: building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("stream: GET %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, 0, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp.Body, resp.ContentLength, nil
}

// Fetch downloads the whole file, retrying transient failures.
func Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	body, err := httpkit.New(timeout).FetchBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stream: fetching %s: %w", url, err)
	}

	return body, nil
}
