// Package render produces the generated deployment artifacts: the .env
// overlay and the docker-compose override document.
package render

import (
	"github.com/lcars-computer/stackctl/internal/model"
)

// Renderer produces one generated artifact from a deployment.
type Renderer interface {
	Render(d *model.Deployment) ([]byte, error)
}

// GeneratedHeader opens every generated document.
const GeneratedHeader = "Generated by stackctl - do not edit manually.\nRe-run `stackctl generate` after changing the deployment."
