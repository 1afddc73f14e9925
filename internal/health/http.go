package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
)

// DefaultHTTPTimeout bounds an HTTP probe.
const DefaultHTTPTimeout = 5 * time.Second

// HTTPChecker issues a GET against a health path. Any status below 500 means
// the service is present: 401, 403 and 404 come from live services that want
// credentials or a different path.
type HTTPChecker struct {
	Path    string
	Timeout time.Duration
	Client  *http.Client
}

// Check performs the GET using the endpoint's scheme (http when unset).
func (c *HTTPChecker) Check(ctx context.Context, ep model.Endpoint) *CheckResult {
	result := newResult("http")

	path := c.Path
	if path == "" {
		path = "/"
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}

	url := ep.BaseURL() + path
	result.Metadata["url"] = url

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result.fail(StatusUnhealthy, fmt.Sprintf("failed to create request: %v", err))
	}

	client := c.Client
	if client == nil {
		client = &http.Client{
			// A redirect is already proof of life.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		return result.fail(StatusUnhealthy, fmt.Sprintf("connection failed: %v", err))
	}
	defer resp.Body.Close()

	result.Metadata["status_code"] = fmt.Sprintf("%d", resp.StatusCode)

	if resp.StatusCode >= 500 {
		result.Message = fmt.Sprintf("HTTP %d (server error)", resp.StatusCode)
		return result.fail(StatusUnhealthy, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	result.OK = true
	result.Status = StatusHealthy
	result.Message = fmt.Sprintf("HTTP %d (latency: %v)", resp.StatusCode, result.Latency)
	return result
}
