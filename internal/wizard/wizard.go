package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/lcars-computer/stackctl/internal/model"
)

// RunInit asks for the stackctl.yml settings.
func RunInit(detection DetectionResult) (*InitAnswers, error) {
	answers := &InitAnswers{
		ProjectDir:   ".",
		DockerDir:    detection.DockerDir,
		ComposeFile:  detection.ComposeFile,
		ReplacePorts: true,
		LogLevel:     "warn",
	}
	if answers.DockerDir == "" {
		answers.DockerDir = "docker"
	}
	if answers.ComposeFile == "" {
		answers.ComposeFile = "docker-compose.yml"
	}

	var hints []string
	if detection.DockerAvailable {
		hints = append(hints, "docker CLI found")
	}
	if detection.DockerDir != "" {
		hints = append(hints, fmt.Sprintf("compose file found: %s/%s", detection.DockerDir, detection.ComposeFile))
	}
	if detection.StateFile {
		hints = append(hints, "saved deployment configuration found")
	}

	desc := "Where does the stack's docker-compose.yml live?"
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	concurrency := "8"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Docker directory").
				Description(desc).
				Value(&answers.DockerDir),
			huh.NewInput().
				Title("Base compose file").
				Value(&answers.ComposeFile),
			huh.NewInput().
				Title("Service catalog file (optional)").
				Description("Leave empty to use the built-in catalog").
				Value(&answers.CatalogPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Parallel detection probes").
				Value(&concurrency).
				Validate(positiveInt),
			huh.NewConfirm().
				Title("Replace the default port binding when a port is remapped?").
				Description("Needs docker compose 2.24 or later").
				Value(&answers.ReplacePorts),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Warnings and errors", "warn"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Debug", "debug"),
				).
				Value(&answers.LogLevel),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	answers.Concurrency, _ = strconv.Atoi(concurrency)
	return answers, nil
}

// ServiceAnswer is the raw form input for one service.
type ServiceAnswer struct {
	Key          string
	UseExisting  bool
	Host         string // [scheme://]host[:port]
	ExternalPort string
	Force        bool
}

// Override converts the answer into a deployment override.
func (a ServiceAnswer) Override() (model.Override, error) {
	o := model.Override{Key: a.Key, UseExisting: model.Ptr(a.UseExisting), Force: model.Ptr(a.Force)}
	if a.UseExisting {
		ep, err := model.ParseHostInput(a.Host)
		if err != nil {
			return o, model.HostInputError(a.Key, a.Host, err)
		}
		o.Endpoint = &ep
		return o, nil
	}
	if strings.TrimSpace(a.ExternalPort) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(a.ExternalPort))
		if err != nil || !model.ValidPort(port) {
			return o, &model.ServiceError{Kind: model.KindInvalidPort, Service: a.Key, Detail: fmt.Sprintf("external port %q", a.ExternalPort)}
		}
		o.ExternalPort = &port
	}
	return o, nil
}

// AnswerFor seeds the form with the current resolved state of a service.
func AnswerFor(sc *model.ServiceConfig) ServiceAnswer {
	a := ServiceAnswer{
		Key:          sc.Key(),
		UseExisting:  sc.UseExisting,
		Force:        sc.ForceOverride,
		ExternalPort: strconv.Itoa(sc.EffectiveExternalPort()),
	}
	ep := sc.EffectiveEndpoint()
	a.Host = ep.String()
	// Suggest reuse when detection found the service.
	if !sc.UseExisting && sc.DetectedHost != nil && sc.Descriptor.CanUseExisting {
		a.UseExisting = true
	}
	return a
}

// Configure walks through every service and returns the chosen overrides.
func Configure(d *model.Deployment) ([]model.Override, error) {
	var overrides []model.Override
	for _, sc := range d.Services() {
		a := AnswerFor(sc)
		if err := serviceForm(sc, &a).Run(); err != nil {
			return nil, err
		}
		o, err := a.Override()
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

func serviceForm(sc *model.ServiceConfig, a *ServiceAnswer) *huh.Form {
	desc := sc.Descriptor.Description
	if sc.DetectedHost != nil {
		desc += fmt.Sprintf("\n\nDetected at %s", model.Endpoint{Host: *sc.DetectedHost, Port: *sc.DetectedPort})
	}

	if !sc.Descriptor.CanUseExisting {
		a.UseExisting = false
		return huh.NewForm(huh.NewGroup(
			huh.NewNote().Title(sc.Descriptor.DisplayName).Description(desc+"\n\nAlways deployed as part of the stack."),
			huh.NewInput().Title("Host port").Value(&a.ExternalPort).Validate(portOrEmpty),
		))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title(sc.Descriptor.DisplayName).
				Description(desc).
				Options(
					huh.NewOption("Deploy a new container", false),
					huh.NewOption("Use an existing instance", true),
				).
				Value(&a.UseExisting),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Existing "+sc.Descriptor.DisplayName+" address").
				Description("host, host:port or https://host:port").
				Value(&a.Host).
				Validate(func(s string) error {
					_, err := model.ParseHostInput(s)
					return err
				}),
			huh.NewConfirm().
				Title("Accept this address even if it does not answer?").
				Value(&a.Force),
		).WithHideFunc(func() bool { return !a.UseExisting }),
		huh.NewGroup(
			huh.NewInput().
				Title("Host port for the new container").
				Value(&a.ExternalPort).
				Validate(portOrEmpty),
		).WithHideFunc(func() bool { return a.UseExisting }),
	)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func portOrEmpty(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !model.ValidPort(n) {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}
