package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lcars-computer/stackctl/internal/catalog"
	"github.com/lcars-computer/stackctl/internal/compose"
	"github.com/lcars-computer/stackctl/internal/config"
	"github.com/lcars-computer/stackctl/internal/detect"
	"github.com/lcars-computer/stackctl/internal/generate"
	"github.com/lcars-computer/stackctl/internal/health"
	"github.com/lcars-computer/stackctl/internal/logging"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/state"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/lcars-computer/stackctl/internal/validate"
	"github.com/sirupsen/logrus"
)

// session is the per-invocation context shared by the commands.
type session struct {
	cfg        *config.Config
	log        *logrus.Logger
	catalog    *catalog.Catalog
	deployment *model.Deployment
}

// loadSession reads stackctl.yml, the catalog and any saved deployment. A
// malformed saved deployment is reported and the catalog defaults are used.
func loadSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	cat, err := catalog.Load(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, catalog: cat, deployment: cat.NewDeployment()}

	saved, err := state.Load(cfg.StateFile(), cat, log)
	switch {
	case err == nil:
		state.Apply(s.deployment, saved)
		log.WithField("file", cfg.StateFile()).Debug("loaded saved deployment")
	case state.IsNotExist(err):
		log.WithField("file", cfg.StateFile()).Debug("no saved deployment")
	case errors.Is(err, model.ErrMalformedConfig):
		ui.Warn(fmt.Sprintf("%v; using catalog defaults", err))
	default:
		return nil, err
	}
	return s, nil
}

func (s *session) probeOptions() health.Options {
	return health.Options{TCPTimeout: s.cfg.Detect.TCPTimeout, HTTPTimeout: s.cfg.Detect.HTTPTimeout}
}

func (s *session) prober() health.Prober {
	return health.NewProber(s.probeOptions())
}

func (s *session) detector() *detect.Detector {
	return detect.New(s.probeOptions(), s.cfg.Detect.Concurrency, s.log)
}

func (s *session) validator() *validate.Validator {
	return validate.New(s.prober(), s.log)
}

// generator loads the base compose project when present so depends_on edges
// follow the real file.
func (s *session) generator(ctx context.Context) *generate.Generator {
	project, err := compose.Load(ctx, s.cfg.ComposeFile(), s.log)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("could not read base compose file; using catalog dependencies")
		}
		project = nil
	}
	return &generate.Generator{
		Validator:    s.validator(),
		Paths:        generate.Paths{EnvFile: s.cfg.EnvFile(), OverrideFile: s.cfg.OverrideFile()},
		ReplacePorts: s.cfg.Generate.ReplacePorts,
		Project:      project,
		Logger:       s.log,
	}
}

// printValidation prints one line per service. The returned error only
// counts failures since each one has already been printed.
func printValidation(results validate.Results) error {
	for _, r := range results {
		if r.Valid {
			detail := r.Endpoint
			switch {
			case !r.Probed:
				detail += " " + ui.Dim("(not probed)")
			case r.Detail != "":
				detail += " " + ui.Dim("("+r.Detail+")")
			}
			ui.ValidationOK(r.Service, detail)
			continue
		}
		ui.ValidationErr(r.Service, fmt.Sprintf("%s: %s", r.Endpoint, r.Detail), suggestionFor(r.Kind))
	}
	bad := len(results.Invalid())
	if bad == 0 {
		return nil
	}
	detail := fmt.Sprintf("%d of %d services invalid, nothing written", bad, len(results))
	if flags := forceFlagsFor(results); flags != "" {
		detail += "; to accept unreachable endpoints add " + flags
	}
	return &model.ServiceError{Kind: model.KindValidationFailed, Detail: detail}
}

// forceFlagsFor lists the --force flags that would accept every unreachable
// service. Other failures cannot be forced.
func forceFlagsFor(results validate.Results) string {
	var flags []string
	for _, r := range results.Invalid() {
		if r.Kind == model.KindUnreachable {
			flags = append(flags, "--force "+r.Service)
		}
	}
	return strings.Join(flags, " ")
}

func suggestionFor(kind model.ErrorKind) string {
	switch kind {
	case model.KindUnreachable:
		return "check the address, or accept it anyway with --force <service>"
	case model.KindModeNotAllowed:
		return "this service is always deployed fresh; use --fresh <service>"
	case model.KindInvalidHostname:
		return "use a bare hostname or IP, or https://host:port for HTTP services"
	case model.KindInvalidPort:
		return "ports must be between 1 and 65535"
	}
	return ""
}
