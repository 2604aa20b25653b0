package httpfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/user/speccrawl/internal/repository"
)

// Fetcher is a plain HTTP GET fetcher built on resty.
type Fetcher struct {
	client  *resty.Client
	rotator *Rotator
	logger  *zap.Logger
}

// NewFetcher creates a fetcher with a per-request timeout. Redirects are followed, nothing is retried.
func NewFetcher(timeout time.Duration, rotator *Rotator, logger *zap.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Fetcher{
		client:  client,
		rotator: rotator,
		logger:  logger,
	}
}

// Fetch downloads locator and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if proxy := f.rotator.Proxy(); proxy != "" {
		f.client.SetProxy(proxy)
		f.logger.Debug("using proxy", zap.String("proxy", proxy))
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.rotator.UserAgent()).
		Get(locator)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w: %v", repository.ErrFetchFailed, repository.ErrFetchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrFetchFailed, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %w: received status code %d", repository.ErrFetchFailed, repository.ErrBadStatus, resp.StatusCode())
	}

	f.logger.Debug("fetched page",
		zap.String("url", locator),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", resp.Time()),
	)

	return toUTF8(resp.Body(), resp.Header().Get("Content-Type"))
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", repository.ErrFetchFailed, err)
	}
	return io.ReadAll(r)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
