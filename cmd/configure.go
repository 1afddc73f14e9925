package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/state"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/lcars-computer/stackctl/internal/util"
	"github.com/lcars-computer/stackctl/internal/validate"
	"github.com/lcars-computer/stackctl/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	existingFlags    []string
	freshFlags       []string
	forceFlags       []string
	configDetect     bool
	configWizard     bool
	configNoGenerate bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Choose fresh or existing infrastructure per service",
	Long: `Record, per service, whether the stack deploys a fresh container or
connects to infrastructure that is already running. Every existing endpoint is
probed before anything is saved; --force accepts an endpoint whose probe fails.
The configuration is saved only when every service validates.

Examples:
  stackctl configure --detect --interactive
  stackctl configure --existing postgres=db.lan:5433 --force postgres
  stackctl configure --existing ollama=https://llm.example.com --fresh homeassistant=18123`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().StringArrayVar(&existingFlags, "existing", nil, "use existing infrastructure: key=[scheme://]host[:port] (repeatable)")
	configureCmd.Flags().StringArrayVar(&freshFlags, "fresh", nil, "deploy a fresh container: key[=external_port] (repeatable)")
	configureCmd.Flags().StringArrayVar(&forceFlags, "force", nil, "accept the existing endpoint of key even if its probe fails (repeatable)")
	configureCmd.Flags().BoolVar(&configDetect, "detect", false, "probe default ports before configuring")
	configureCmd.Flags().BoolVarP(&configWizard, "interactive", "i", false, "walk through every service interactively")
	configureCmd.Flags().BoolVar(&configNoGenerate, "no-generate", false, "save the configuration without writing .env and the override file")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if configDetect {
		ui.StepStarted("Detecting running services")
		results := s.detector().DetectAll(ctx, s.catalog.List())
		s.deployment.ApplyDetection(results)
		var found []string
		for _, desc := range s.catalog.List() {
			if det := results[desc.Key]; det.Found() {
				found = append(found, fmt.Sprintf("%s at %s", desc.Key, model.Endpoint{Host: *det.Host, Port: *det.Port}))
			}
		}
		ui.StepDone("Detecting running services", fmt.Sprintf("%d found", len(found)))
		for _, f := range found {
			fmt.Println("      " + ui.Hint(f))
		}
	}

	overrides, err := parseOverrides(existingFlags, freshFlags, forceFlags)
	if err != nil {
		return err
	}
	if err := applyOverrides(s.deployment, overrides); err != nil {
		return err
	}
	// The wizard starts from the flag values.
	if configWizard {
		chosen, err := wizard.Configure(s.deployment)
		if err != nil {
			return fmt.Errorf("wizard: %w", err)
		}
		if err := applyOverrides(s.deployment, chosen); err != nil {
			return err
		}
	}

	warnLoopback(s.deployment)

	fmt.Println(ui.Bold("Validating services..."))
	results := s.validator().ValidateAll(ctx, s.deployment)
	if err := printValidation(results); err != nil {
		return err
	}

	if err := state.Save(s.deployment, s.cfg.StateFile()); err != nil {
		return err
	}
	fmt.Println()
	ui.Success(fmt.Sprintf("Saved %s", s.cfg.StateFile()))

	if configNoGenerate {
		ui.StepSkipped("Generating artifacts", "--no-generate")
		return nil
	}

	g := s.generator(ctx)
	// Validation has just run; reuse its results instead of probing twice.
	g.Validator = cachedResults(results)
	if _, err := g.Generate(ctx, s.deployment); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Wrote %s and %s", s.cfg.EnvFile(), s.cfg.OverrideFile()))
	fmt.Printf("Next step: %s\n", ui.Bold("docker compose up -d"))
	return nil
}

// cachedResults satisfies generate.Validator with results computed earlier.
type cachedResults validate.Results

func (c cachedResults) ValidateAll(context.Context, *model.Deployment) validate.Results {
	return validate.Results(c)
}

// parseOverrides turns --existing, --fresh and --force values into
// deployment overrides. A key may not be both existing and fresh.
func parseOverrides(existing, fresh, force []string) ([]model.Override, error) {
	var out []model.Override
	modes := make(map[string]string)

	for _, v := range existing {
		key, value, ok := strings.Cut(v, "=")
		key = util.SanitizeKey(key)
		if !ok || key == "" || strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("--existing %q: want key=[scheme://]host[:port]", v)
		}
		ep, err := model.ParseHostInput(value)
		if err != nil {
			return nil, model.HostInputError(key, value, err)
		}
		if err := setMode(modes, key, "existing"); err != nil {
			return nil, err
		}
		out = append(out, model.Override{Key: key, UseExisting: model.Ptr(true), Endpoint: &ep})
	}

	for _, v := range fresh {
		key, value, hasPort := strings.Cut(v, "=")
		key = util.SanitizeKey(key)
		if key == "" {
			return nil, fmt.Errorf("--fresh %q: want key[=external_port]", v)
		}
		if err := setMode(modes, key, "fresh"); err != nil {
			return nil, err
		}
		o := model.Override{Key: key, UseExisting: model.Ptr(false)}
		if hasPort {
			port, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || !model.ValidPort(port) {
				return nil, &model.ServiceError{Kind: model.KindInvalidPort, Service: key, Detail: fmt.Sprintf("external port %q", value)}
			}
			o.ExternalPort = &port
		}
		out = append(out, o)
	}

	for _, v := range force {
		key := util.SanitizeKey(v)
		if key == "" {
			return nil, fmt.Errorf("--force needs a service key")
		}
		out = append(out, model.Override{Key: key, Force: model.Ptr(true)})
	}
	return out, nil
}

func applyOverrides(d *model.Deployment, overrides []model.Override) error {
	for _, o := range overrides {
		if err := d.ApplyOverride(o); err != nil {
			return err
		}
	}
	return nil
}

func setMode(modes map[string]string, key, mode string) error {
	if prev, ok := modes[key]; ok && prev != mode {
		return fmt.Errorf("%s is given both --%s and --%s", key, prev, mode)
	}
	modes[key] = mode
	return nil
}

// warnLoopback flags existing endpoints on localhost, which containers
// resolve to themselves rather than the docker host.
func warnLoopback(d *model.Deployment) {
	for _, sc := range d.Existing() {
		ep := sc.EffectiveEndpoint()
		if ep.Loopback() {
			ui.Warn(fmt.Sprintf("%s uses %s; containers cannot reach the host this way, consider host.docker.internal:%d",
				sc.Key(), ep, ep.Port))
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
