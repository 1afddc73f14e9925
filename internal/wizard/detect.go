package wizard

import (
	"os"
	"os/exec"
	"path/filepath"
)

// DetectionResult holds what was found in the working directory.
type DetectionResult struct {
	DockerAvailable bool
	DockerDir       string // directory holding the base compose file
	ComposeFile     string // file name inside DockerDir
	EnvFile         bool
	StateFile       bool
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

var composeNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Detect looks for the stack's docker directory and its files.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if _, err := d.LookPath("docker"); err == nil {
		result.DockerAvailable = true
	}

	candidates := []string{"docker", "."}
	if matches, err := d.Glob("*/docker"); err == nil {
		candidates = append(candidates, matches...)
	}

	for _, dir := range candidates {
		if info, err := d.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		for _, name := range composeNames {
			if _, err := d.Stat(filepath.Join(dir, name)); err == nil {
				result.DockerDir = dir
				result.ComposeFile = name
				break
			}
		}
		if result.DockerDir != "" {
			break
		}
	}

	if result.DockerDir != "" {
		if _, err := d.Stat(filepath.Join(result.DockerDir, ".env")); err == nil {
			result.EnvFile = true
		}
		if _, err := d.Stat(filepath.Join(result.DockerDir, "deployment_config.json")); err == nil {
			result.StateFile = true
		}
	}

	return result
}
