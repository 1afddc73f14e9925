package health

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile exports a report in the node-exporter textfile format.
func WriteTextfile(path string, report *Report) error {
	reg := prometheus.NewRegistry()

	up := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stackctl",
		Name:      "service_up",
		Help:      "Whether the service passed its health probe (1) or not (0).",
	}, []string{"service", "mode", "required"})

	latency := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stackctl",
		Name:      "service_probe_latency_seconds",
		Help:      "Latency of the last health probe.",
	}, []string{"service"})

	reg.MustRegister(up, latency)

	for _, s := range report.Services {
		v := 0.0
		if s.OK() {
			v = 1
		}
		required := "false"
		if s.Required {
			required = "true"
		}
		up.WithLabelValues(s.Service, s.Mode, required).Set(v)
		if s.Probe != nil && !s.Probe.Skipped() {
			latency.WithLabelValues(s.Service).Set(s.Probe.Latency.Seconds())
		}
	}

	return prometheus.WriteToTextfile(path, reg)
}
