package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lcars-computer/stackctl/internal/health"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	healthJSON     bool
	healthDeep     bool
	healthTextfile string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe every service of the running stack",
	Long: `Probe existing services at their configured endpoint and fresh services on
their published localhost port. Exits 0 when everything is healthy, 1 when an
optional service failed and 2 when a required service failed.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print the report as JSON")
	healthCmd.Flags().BoolVar(&healthDeep, "deep", false, "also ping Redis and PostgreSQL with credentials from .env")
	healthCmd.Flags().StringVar(&healthTextfile, "textfile", "", "write Prometheus metrics for the node-exporter textfile collector")
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	reporter := &health.Reporter{
		Prober:      s.prober(),
		Concurrency: s.cfg.Detect.Concurrency,
		Logger:      s.log,
	}
	if healthDeep {
		creds, err := health.LoadCredentials(s.cfg.EnvFile())
		if err != nil {
			return err
		}
		reporter.Deep = creds.DeepCheckers(s.cfg.Detect.HTTPTimeout)
	}

	report := reporter.Run(commandContext(cmd), s.deployment)

	if healthTextfile != "" {
		if err := health.WriteTextfile(healthTextfile, report); err != nil {
			return err
		}
	}

	if healthJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if code := report.ExitCode(); code != health.ExitHealthy {
		return &exitError{code: code, err: fmt.Errorf("%d of %d services unhealthy", len(report.Failed()), len(report.Services))}
	}
	return nil
}

func printReport(report *health.Report) {
	t := ui.NewTable(os.Stdout, "SERVICE", "MODE", "ENDPOINT", "STATUS", "LATENCY", "DETAIL")
	for _, sr := range report.Services {
		status, detail := sr.Probe.Status, sr.Probe.Error
		if sr.Deep != nil {
			if !sr.Deep.OK {
				status, detail = sr.Deep.Status, sr.Deep.Error
			} else if v := sr.Deep.Metadata["version"]; v != "" {
				detail = v
			}
		}
		if sr.Required && !sr.OK() {
			detail = "required: " + detail
		}
		latency := "-"
		if !sr.Probe.Skipped() {
			latency = sr.Probe.Latency.Round(time.Millisecond).String()
		}
		t.AppendRow([]interface{}{sr.Service, ui.ModeText(sr.Mode), sr.Endpoint, ui.StatusText(status), latency, detail})
	}
	t.Render()
}
