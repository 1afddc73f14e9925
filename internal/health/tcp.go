package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
)

// DefaultTCPTimeout bounds a TCP connect probe.
const DefaultTCPTimeout = 2 * time.Second

// TCPChecker checks raw TCP connectivity.
type TCPChecker struct {
	Timeout time.Duration
}

// Check opens and immediately closes a TCP connection.
func (c *TCPChecker) Check(ctx context.Context, ep model.Endpoint) *CheckResult {
	result := newResult("tcp")

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTCPTimeout
	}

	target := ep.Address()
	result.Metadata["address"] = target

	dialer := &net.Dialer{Timeout: timeout}
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", target)
	result.Latency = time.Since(start)
	if err != nil {
		return result.fail(StatusUnhealthy, fmt.Sprintf("port %d not accessible on %s: %v", ep.Port, ep.Host, err))
	}
	_ = conn.Close()

	result.OK = true
	result.Status = StatusHealthy
	result.Message = fmt.Sprintf("TCP connect OK (latency: %v)", result.Latency)
	return result
}
