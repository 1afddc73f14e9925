package cmd

import (
	"fmt"
	"os"

	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List catalog services and their resolved configuration",
	RunE:  runServices,
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}

func runServices(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	t := ui.NewTable(os.Stdout, "SERVICE", "NAME", "MODE", "ENDPOINT", "CHECK", "REQUIRED")
	for _, sc := range s.deployment.Services() {
		mode, target := "fresh", ""
		switch m := sc.Mode().(type) {
		case model.Existing:
			mode, target = "existing", m.Endpoint.String()
			if sc.ForceOverride {
				target += " " + ui.Dim("(forced)")
			}
		case model.Fresh:
			target = fmt.Sprintf("host port %s", model.PortBinding{HostPort: m.ExternalPort, ContainerPort: m.InternalPort})
		}
		check := string(sc.Descriptor.HealthCheck.Kind)
		if sc.Descriptor.HealthCheck.Path != "" {
			check += " " + sc.Descriptor.HealthCheck.Path
		}
		required := ""
		if sc.Descriptor.Required {
			required = "yes"
		}
		t.AppendRow([]interface{}{sc.Key(), sc.Descriptor.DisplayName, ui.ModeText(mode), target, check, required})
	}
	t.Render()
	return nil
}
