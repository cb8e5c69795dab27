package inventory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/armbian/targetgen/internal/utils"
)

const (
	DefaultFetchRetries = 3
	DefaultFetchTimeout = 30 * time.Second
)

// FetchOptions controls how a remote inventory is downloaded.
type FetchOptions struct {
	Retries int
	Timeout time.Duration
	Proxy   string
}

// leveledLogger routes retryablehttp messages into the shared logrus logger.
type leveledLogger struct {
	log *logrus.Logger
}

func (l leveledLogger) fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Warn(msg)
}

func newClient(opts FetchOptions) (*retryablehttp.Client, error) {
	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{log: utils.Log}
	client.RetryMax = opts.Retries
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		if t, ok := client.HTTPClient.Transport.(*http.Transport); ok {
			t.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return client, nil
}

// Fetch downloads a remote inventory document.
func Fetch(ctx context.Context, src string, opts FetchOptions) ([]byte, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "targetgen")
	req.Header.Set("Accept", "application/json")

	utils.Log.Infof("Downloading inventory from %s...", src)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
