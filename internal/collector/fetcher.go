package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher returns the raw markup behind a listing page URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("request %s: status %d", url, res.StatusCode())
	}
	return res.Body(), nil
}
