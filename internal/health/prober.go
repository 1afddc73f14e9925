package health

import (
	"context"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
)

// Prober probes a catalog service at an endpoint using the descriptor's
// health-check kind.
type Prober interface {
	Probe(ctx context.Context, d *model.ServiceDescriptor, ep model.Endpoint) *CheckResult
}

// Options configures NetProber timeouts.
type Options struct {
	TCPTimeout  time.Duration
	HTTPTimeout time.Duration
}

// NetProber probes over the network with plain TCP connects and HTTP GETs.
type NetProber struct {
	Options Options
}

// NewProber returns a NetProber with the given timeouts.
func NewProber(opts Options) *NetProber {
	return &NetProber{Options: opts}
}

// Probe dispatches on the health-check kind. Services without a health check
// return a skipped result.
func (p *NetProber) Probe(ctx context.Context, d *model.ServiceDescriptor, ep model.Endpoint) *CheckResult {
	checker := p.CheckerFor(d)
	if checker == nil {
		r := newResult(string(model.HealthCheckNone))
		r.Status = StatusSkipped
		r.Message = "service has no health check"
		return r
	}
	r := checker.Check(ctx, ep)
	r.Name = d.Key
	return r
}

// CheckerFor returns the checker for a descriptor, or nil for kind none.
func (p *NetProber) CheckerFor(d *model.ServiceDescriptor) Checker {
	switch d.HealthCheck.Kind {
	case model.HealthCheckTCP:
		return &TCPChecker{Timeout: p.Options.TCPTimeout}
	case model.HealthCheckHTTP:
		return &HTTPChecker{Path: d.HealthCheck.Path, Timeout: p.Options.HTTPTimeout}
	}
	return nil
}
