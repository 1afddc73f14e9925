// Package validate checks resolved service configurations before they are
// persisted or turned into artifacts.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lcars-computer/stackctl/internal/health"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of validating one service. Kind is empty when Valid.
type Result struct {
	Service  string          `json:"service"`
	Endpoint string          `json:"endpoint"`
	Valid    bool            `json:"valid"`
	Kind     model.ErrorKind `json:"kind,omitempty"`
	Detail   string          `json:"detail,omitempty"`
	Probed   bool            `json:"probed"`
}

// Err returns nil for a valid result and a *model.ServiceError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &model.ServiceError{Kind: r.Kind, Service: r.Service, Endpoint: r.Endpoint, Detail: r.Detail}
}

// Results holds per-service results in catalog order.
type Results []Result

// Invalid returns the failing results.
func (rs Results) Invalid() Results {
	var out Results
	for _, r := range rs {
		if !r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every service validated.
func (rs Results) OK() bool {
	return len(rs.Invalid()) == 0
}

// Err summarises all failures as a single ValidationFailed error.
func (rs Results) Err() error {
	bad := rs.Invalid()
	if len(bad) == 0 {
		return nil
	}
	lines := make([]string, 0, len(bad))
	for _, r := range bad {
		lines = append(lines, r.Err().Error())
	}
	return &model.ServiceError{
		Kind:   model.KindValidationFailed,
		Detail: fmt.Sprintf("%d service(s) invalid:\n  %s", len(bad), strings.Join(lines, "\n  ")),
	}
}

// Validator runs the structural, syntactic and reachability checks.
type Validator struct {
	Prober health.Prober
	Logger logrus.FieldLogger

	validate *validator.Validate
}

// New returns a Validator probing through p.
func New(p health.Prober, logger logrus.FieldLogger) *Validator {
	return &Validator{
		Prober:   p,
		Logger:   logger,
		validate: validator.New(),
	}
}

// Validate checks one service, short-circuiting on the first failure. It
// only ever writes LastHealth. A forced service is still probed and the
// result recorded, but a failed probe does not invalidate it.
func (v *Validator) Validate(ctx context.Context, sc *model.ServiceConfig) Result {
	ep := sc.EffectiveEndpoint()
	res := Result{Service: sc.Key(), Endpoint: ep.String()}
	log := v.logger().WithFields(logrus.Fields{"service": sc.Key(), "endpoint": res.Endpoint})

	fail := func(kind model.ErrorKind, format string, args ...any) Result {
		res.Kind = kind
		res.Detail = fmt.Sprintf(format, args...)
		log.WithField("kind", kind).Debug(res.Detail)
		return res
	}

	if sc.UseExisting && !sc.Descriptor.CanUseExisting {
		return fail(model.KindModeNotAllowed, "%s cannot reuse an existing instance and is always deployed fresh", sc.Key())
	}

	if err := v.checkHost(ep.Host); err != "" {
		return fail(model.KindInvalidHostname, "%s", err)
	}
	if ep.Scheme != "" {
		if ep.Scheme != "http" && ep.Scheme != "https" {
			return fail(model.KindInvalidHostname, "unsupported scheme %q", ep.Scheme)
		}
		if sc.Descriptor.HealthCheck.Kind != model.HealthCheckHTTP {
			return fail(model.KindInvalidHostname, "a URL scheme is only accepted for HTTP services")
		}
	}

	if !model.ValidPort(ep.Port) {
		return fail(model.KindInvalidPort, "port %d out of range 1-65535", ep.Port)
	}

	switch m := sc.Mode().(type) {
	case model.Fresh:
		if !model.ValidPort(m.ExternalPort) {
			return fail(model.KindInvalidPort, "external port %d out of range 1-65535", m.ExternalPort)
		}
	case model.Existing:
		r := v.Prober.Probe(ctx, sc.Descriptor, m.Endpoint)
		if r.Skipped() {
			break
		}
		res.Probed = true
		sc.LastHealth = &model.HealthResult{OK: r.OK, Error: r.Error, CheckedAt: r.CheckedAt}
		if r.OK {
			break
		}
		if sc.ForceOverride {
			res.Detail = "forced despite failed probe: " + r.Error
			log.WithField("error", r.Error).Info("health probe failed; accepted by force override")
			break
		}
		return fail(model.KindUnreachable, "%s", r.Error)
	}

	res.Valid = true
	return res
}

// ValidateAll validates every service of the deployment.
func (v *Validator) ValidateAll(ctx context.Context, d *model.Deployment) Results {
	out := make(Results, 0, len(d.Services()))
	for _, sc := range d.Services() {
		out = append(out, v.Validate(ctx, sc))
	}
	return out
}

func (v *Validator) checkHost(host string) string {
	switch {
	case strings.TrimSpace(host) == "":
		return "host is empty"
	case strings.ContainsAny(host, " \t\r\n"):
		return fmt.Sprintf("host %q contains whitespace", host)
	case strings.Contains(host, "://"):
		return fmt.Sprintf("host %q must not include a URL scheme", host)
	}
	if err := v.validator().Var(host, "hostname_rfc1123|ip"); err != nil {
		return fmt.Sprintf("host %q is not a valid hostname or IP address", host)
	}
	return ""
}

func (v *Validator) validator() *validator.Validate {
	if v.validate == nil {
		v.validate = validator.New()
	}
	return v.validate
}

func (v *Validator) logger() logrus.FieldLogger {
	if v.Logger == nil {
		return logrus.StandardLogger()
	}
	return v.Logger
}
