package health

import (
	"context"
	"fmt"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many services are probed at once.
const DefaultConcurrency = 4

// Exit codes returned by Report.ExitCode.
const (
	ExitHealthy  = 0
	ExitDegraded = 1
	ExitCritical = 2
)

// ServiceReport is the health of one service.
type ServiceReport struct {
	Service  string       `json:"service"`
	Name     string       `json:"name"`
	Mode     string       `json:"mode"`
	Endpoint string       `json:"endpoint"`
	Required bool         `json:"required"`
	Probe    *CheckResult `json:"probe"`
	Deep     *CheckResult `json:"deep,omitempty"`
}

// OK reports whether the probe and the deep check (if any) passed. Skipped
// probes count as passing.
func (s *ServiceReport) OK() bool {
	if s.Probe != nil && !s.Probe.OK && !s.Probe.Skipped() {
		return false
	}
	if s.Deep != nil && !s.Deep.OK {
		return false
	}
	return true
}

// Report aggregates service health in catalog order.
type Report struct {
	Services  []*ServiceReport `json:"services"`
	CheckedAt time.Time        `json:"checked_at"`
}

// Failed returns the services that did not pass.
func (r *Report) Failed() []*ServiceReport {
	var out []*ServiceReport
	for _, s := range r.Services {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// ExitCode is 0 when everything passed, 2 when a required service failed and
// 1 otherwise.
func (r *Report) ExitCode() int {
	code := ExitHealthy
	for _, s := range r.Failed() {
		if s.Required {
			return ExitCritical
		}
		code = ExitDegraded
	}
	return code
}

// Reporter probes every service of a deployment.
type Reporter struct {
	Prober      Prober
	Deep        map[model.DeepCheckKind]Checker
	Concurrency int
	Logger      logrus.FieldLogger
}

// Target returns where a service is expected to answer: the effective
// endpoint for existing services, the published localhost port otherwise.
func Target(sc *model.ServiceConfig) (string, model.Endpoint) {
	switch m := sc.Mode().(type) {
	case model.Existing:
		return "existing", m.Endpoint
	case model.Fresh:
		return "fresh", model.Endpoint{Host: "localhost", Port: m.ExternalPort}
	}
	return "", sc.EffectiveEndpoint()
}

// Run probes all services concurrently and waits for every probe to finish.
func (r *Reporter) Run(ctx context.Context, d *model.Deployment) *Report {
	services := d.Services()
	report := &Report{
		Services:  make([]*ServiceReport, len(services)),
		CheckedAt: time.Now(),
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, sc := range services {
		g.Go(func() error {
			report.Services[i] = r.check(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (r *Reporter) check(ctx context.Context, sc *model.ServiceConfig) (sr *ServiceReport) {
	mode, ep := Target(sc)
	sr = &ServiceReport{
		Service:  sc.Key(),
		Name:     sc.Descriptor.DisplayName,
		Mode:     mode,
		Endpoint: ep.String(),
		Required: sc.Descriptor.Required,
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger().WithField("service", sc.Key()).Errorf("probe panicked: %v", rec)
			sr.Probe = newResult(sc.Key()).fail(StatusUnhealthy, fmt.Sprintf("probe panicked: %v", rec))
		}
	}()

	sr.Probe = r.Prober.Probe(ctx, sc.Descriptor, ep)
	if sr.Probe.OK && sc.Descriptor.Deep != "" {
		if checker, ok := r.Deep[sc.Descriptor.Deep]; ok {
			sr.Deep = checker.Check(ctx, ep)
		}
	}

	r.logger().WithFields(logrus.Fields{
		"service":  sc.Key(),
		"endpoint": sr.Endpoint,
		"ok":       sr.OK(),
	}).Debug("health probe finished")
	return sr
}

func (r *Reporter) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}
