// Package fetch loads JSON documents from HTTP(S) URLs.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcncl/jsonfmt/internal/errors"
)

// MaxBodySize is the largest response body a zero Client accepts.
const MaxBodySize = 64 << 20

// Response is the part of an HTTP response the formatter needs.
type Response struct {
	URL         string
	ContentType string
	Body        string
}

// Client fetches documents. A zero Client uses http.DefaultClient and no
// retries.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Attempts  int
	Delay     time.Duration

	// MaxBody overrides MaxBodySize when positive.
	MaxBody int64
}

// IsURL reports whether location should be fetched rather than opened.
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Get fetches url. Server errors and transport failures are retried with a
// doubling delay; other non-2xx statuses fail immediately.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	var resp Response
	err := retry(ctx, c.Attempts, c.Delay, func() error {
		var err error
		resp, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return Response{}, errors.NewFetchError(fmt.Sprintf("failed to fetch '%s'", url), err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Accept", "application/json, text/json;q=0.9, */*;q=0.1")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, err
		}
		return Response{}, &retryableError{err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: %s", errors.ErrUnexpectedStatus, res.Status)
		if res.StatusCode >= 500 {
			return Response{}, &retryableError{statusErr}
		}
		return Response{}, statusErr
	}

	limit := c.maxBody()
	body, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return Response{}, &retryableError{err}
	}
	if int64(len(body)) > limit {
		return Response{}, fmt.Errorf("%w: more than %d bytes", errors.ErrBodyTooLarge, limit)
	}
	return Response{
		URL:         url,
		ContentType: res.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}

func (c *Client) maxBody() int64 {
	if c.MaxBody > 0 {
		return c.MaxBody
	}
	return MaxBodySize
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry runs fn up to attempts times, doubling delay after each retryable
// failure.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !stderrors.As(err, new(*retryableError)) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
