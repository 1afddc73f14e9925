package health

import (
	"context"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
)

// Status values reported in CheckResult.Status.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusSkipped   = "skipped"
)

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Name      string            `json:"name"`
	OK        bool              `json:"ok"`
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Latency   time.Duration     `json:"latency,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// Skipped reports whether no probe was attempted.
func (r *CheckResult) Skipped() bool {
	return r.Status == StatusSkipped
}

// Checker probes a single endpoint.
type Checker interface {
	Check(ctx context.Context, ep model.Endpoint) *CheckResult
}

func newResult(name string) *CheckResult {
	return &CheckResult{
		Name:      name,
		CheckedAt: time.Now(),
		Metadata:  make(map[string]string),
	}
}

func (r *CheckResult) fail(status, msg string) *CheckResult {
	r.OK = false
	r.Status = status
	r.Error = msg
	return r
}
