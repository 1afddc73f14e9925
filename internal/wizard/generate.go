package wizard

import (
	"bytes"
	"text/template"
)

// InitAnswers holds the responses of the init wizard.
type InitAnswers struct {
	ProjectDir   string
	DockerDir    string
	ComposeFile  string
	CatalogPath  string
	Concurrency  int
	ReplacePorts bool
	LogLevel     string
}

const configTemplate = `# stackctl configuration
# Keys can also be set with STACKCTL_* environment variables,
# e.g. STACKCTL_DETECT_CONCURRENCY=4.

project_dir: {{ .ProjectDir }}

paths:
  docker_dir: {{ .DockerDir }}
  compose_file: {{ .ComposeFile }}
  env_file: .env
  override_file: docker-compose.override.yml
  state_file: deployment_config.json
{{- if .CatalogPath }}

catalog:
  path: {{ .CatalogPath }}
{{- end }}

detect:
  concurrency: {{ .Concurrency }}
  tcp_timeout: 2s
  http_timeout: 5s

generate:
  replace_ports: {{ if .ReplacePorts }}true{{ else }}false{{ end }}

log:
  level: {{ .LogLevel }}
  format: text
`

// GenerateConfig renders stackctl.yml from wizard answers.
func GenerateConfig(answers InitAnswers) (string, error) {
	if answers.ProjectDir == "" {
		answers.ProjectDir = "."
	}
	if answers.DockerDir == "" {
		answers.DockerDir = "docker"
	}
	if answers.ComposeFile == "" {
		answers.ComposeFile = "docker-compose.yml"
	}
	if answers.Concurrency <= 0 {
		answers.Concurrency = 8
	}
	if answers.LogLevel == "" {
		answers.LogLevel = "warn"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
