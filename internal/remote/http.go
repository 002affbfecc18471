package remote

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/raphi011/orgit/internal/log"
)

// NewHTTPClient returns a client that retries transient failures up to
// retries times. Retry diagnostics go to the debug log of l.
func NewHTTPClient(timeout time.Duration, retries int, l *log.Logger) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = leveledLogger{l: l}
	return rc.StandardClient()
}

// leveledLogger routes retryablehttp messages to the debug log.
type leveledLogger struct {
	l *log.Logger
}

func (x leveledLogger) Error(msg string, kv ...any) { x.log("error: "+msg, kv) }
func (x leveledLogger) Warn(msg string, kv ...any)  { x.log("warn: "+msg, kv) }
func (x leveledLogger) Info(msg string, kv ...any)  { x.log(msg, kv) }
func (x leveledLogger) Debug(msg string, kv ...any) { x.log(msg, kv) }

func (x leveledLogger) log(msg string, kv []any) {
	if x.l == nil {
		return
	}
	x.l.Debug("http: "+msg, kv...)
}

// Prober reports the HTTP status of a GET request.
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// HTTPProber probes URLs with a plain GET.
type HTTPProber struct {
	Client    *http.Client
	UserAgent string
}

// Probe issues GET url and returns the response status. The body is discarded.
func (p *HTTPProber) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
