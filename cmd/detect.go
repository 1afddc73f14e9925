package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lcars-computer/stackctl/internal/detect"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	detectJSON       bool
	detectContainers bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Probe default ports for services already running",
	Long: `Probe every catalog service on its default host and port and report what
answered. Detection results are not saved; use 'stackctl configure --detect'
to take them into account.`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print results as JSON")
	detectCmd.Flags().BoolVar(&detectContainers, "containers", false, "also list docker containers matching catalog services")
}

// detectedService is the JSON shape of one detection result.
type detectedService struct {
	Service    string             `json:"service"`
	Found      bool               `json:"found"`
	Probed     bool               `json:"probed"`
	Endpoint   string             `json:"endpoint,omitempty"`
	Containers []detect.Container `json:"containers,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if !detectJSON {
		ui.StepStarted("Probing default ports")
	}
	results := s.detector().DetectAll(ctx, s.catalog.List())
	if !detectJSON {
		ui.StepDone("Probing default ports", "")
	}

	var byService map[string][]detect.Container
	if detectContainers {
		byService, err = scanContainers(ctx)
		if err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Container scan failed", err.Error(), "is the docker daemon running?"))
		}
	}

	out := make([]detectedService, 0, len(results))
	for _, desc := range s.catalog.List() {
		det := results[desc.Key]
		ds := detectedService{
			Service:    desc.Key,
			Found:      det.Found(),
			Probed:     desc.HealthCheck.Kind != model.HealthCheckNone,
			Containers: byService[desc.Key],
		}
		if det.Found() {
			ds.Endpoint = model.Endpoint{Host: *det.Host, Port: *det.Port}.String()
		}
		out = append(out, ds)
	}

	if detectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	headers := []string{"SERVICE", "STATUS", "ENDPOINT"}
	if detectContainers {
		headers = append(headers, "CONTAINERS")
	}
	t := ui.NewTable(os.Stdout, headers...)
	found := 0
	for _, ds := range out {
		status := "-"
		if !ds.Probed {
			status = "skipped"
		}
		if ds.Found {
			status = "detected"
			found++
		}
		row := []interface{}{ds.Service, ui.StatusText(status), ds.Endpoint}
		if detectContainers {
			row = append(row, containerSummary(ds.Containers))
		}
		t.AppendRow(row)
	}
	t.Render()

	fmt.Println()
	ui.Success(fmt.Sprintf("%d of %d services detected", found, len(out)))
	return nil
}

func scanContainers(ctx context.Context) (map[string][]detect.Container, error) {
	if _, err := findExecutable("docker"); err != nil {
		return nil, fmt.Errorf("docker not found in PATH")
	}
	scanner := &detect.ContainerScanner{Run: runCommand}
	containers, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return detect.ByService(containers), nil
}

func containerSummary(containers []detect.Container) string {
	var parts []string
	for _, c := range containers {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, c.State))
	}
	return strings.Join(parts, ", ")
}
