// Package detect finds catalog services that already run on the host.
package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/lcars-computer/stackctl/internal/health"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many probes run at once.
const DefaultConcurrency = 8

// Detector probes each service at its catalog default endpoint.
type Detector struct {
	Prober      health.Prober
	Concurrency int
	Logger      logrus.FieldLogger
}

// New returns a Detector using network probes with the given timeouts.
func New(opts health.Options, concurrency int, logger logrus.FieldLogger) *Detector {
	return &Detector{
		Prober:      health.NewProber(opts),
		Concurrency: concurrency,
		Logger:      logger,
	}
}

// Detect probes default_host:default_port. A service without a health check
// is never detected. Detect does not touch any ServiceConfig.
func (d *Detector) Detect(ctx context.Context, desc *model.ServiceDescriptor) model.Detection {
	if desc.HealthCheck.Kind == model.HealthCheckNone {
		return model.Detection{}
	}

	ep := model.Endpoint{Host: desc.DefaultHost, Port: desc.DefaultPort}
	log := d.logger().WithFields(logrus.Fields{"service": desc.Key, "endpoint": ep.String()})

	start := time.Now()
	r := d.Prober.Probe(ctx, desc, ep)
	if r == nil || !r.OK {
		if r != nil {
			log = log.WithField("error", r.Error)
		}
		log.Debug("service not detected")
		return model.Detection{}
	}

	log.WithField("latency", time.Since(start)).Info("service detected")
	return model.Detection{Host: model.Ptr(desc.DefaultHost), Port: model.Ptr(desc.DefaultPort)}
}

// DetectAll probes every descriptor concurrently and returns once all probes
// have finished. A probe that panics is recorded as not detected.
func (d *Detector) DetectAll(ctx context.Context, descriptors []*model.ServiceDescriptor) map[string]model.Detection {
	found := make([]model.Detection, len(descriptors))

	limit := d.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, desc := range descriptors {
		g.Go(func() error {
			found[i] = d.safeDetect(ctx, desc)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]model.Detection, len(descriptors))
	for i, desc := range descriptors {
		out[desc.Key] = found[i]
	}
	return out
}

func (d *Detector) safeDetect(ctx context.Context, desc *model.ServiceDescriptor) (det model.Detection) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &model.ServiceError{
				Kind:     model.KindUnreachable,
				Service:  desc.Key,
				Endpoint: model.Endpoint{Host: desc.DefaultHost, Port: desc.DefaultPort}.String(),
				Detail:   fmt.Sprintf("probe panicked: %v", rec),
			}
			d.logger().WithField("service", desc.Key).Warn(err.Error())
			det = model.Detection{}
		}
	}()
	return d.Detect(ctx, desc)
}

func (d *Detector) logger() logrus.FieldLogger {
	if d.Logger == nil {
		return logrus.StandardLogger()
	}
	return d.Logger
}
