// Package generate writes the .env overlay and the compose override as a
// pair: both files change or neither does.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lcars-computer/stackctl/internal/compose"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/render"
	"github.com/lcars-computer/stackctl/internal/state"
	"github.com/lcars-computer/stackctl/internal/validate"
	"github.com/sirupsen/logrus"
)

// Validator re-checks the deployment right before anything is written.
type Validator interface {
	ValidateAll(ctx context.Context, d *model.Deployment) validate.Results
}

// Paths are the two generated files.
type Paths struct {
	EnvFile      string
	OverrideFile string
}

// Artifacts are the rendered documents.
type Artifacts struct {
	Env      []byte
	Override []byte
}

// Generator renders and writes both artifacts.
type Generator struct {
	Validator    Validator
	Paths        Paths
	ReplacePorts bool
	Project      *compose.Project
	Logger       logrus.FieldLogger

	// rename is os.Rename outside tests.
	rename func(oldpath, newpath string) error
}

// Plan renders both documents against the current .env without writing.
func (g *Generator) Plan(d *model.Deployment) (*Artifacts, error) {
	base, err := os.ReadFile(g.Paths.EnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", g.Paths.EnvFile, err)
	}

	renderers := []render.Renderer{
		&render.EnvRenderer{Base: base},
		&render.OverrideRenderer{ReplacePorts: g.ReplacePorts, Project: g.Project},
	}
	docs := make([][]byte, len(renderers))
	for i, r := range renderers {
		if docs[i], err = r.Render(d); err != nil {
			return nil, err
		}
	}
	return &Artifacts{Env: docs[0], Override: docs[1]}, nil
}

// Generate validates every service, then writes both artifacts. Any invalid
// service aborts with a ValidationFailed error before touching the disk.
func (g *Generator) Generate(ctx context.Context, d *model.Deployment) (*Artifacts, error) {
	if g.Validator != nil {
		if err := g.Validator.ValidateAll(ctx, d).Err(); err != nil {
			return nil, err
		}
	}

	a, err := g.Plan(d)
	if err != nil {
		return nil, err
	}
	if err := g.write(a); err != nil {
		return nil, err
	}

	g.logger().WithFields(logrus.Fields{
		"env":      g.Paths.EnvFile,
		"override": g.Paths.OverrideFile,
	}).Info("artifacts written")
	return a, nil
}

type target struct {
	path     string
	data     []byte
	perm     fs.FileMode
	original []byte
	existed  bool
	tmp      string
}

func (g *Generator) write(a *Artifacts) error {
	targets := []*target{
		{path: g.Paths.EnvFile, data: a.Env, perm: 0o600},
		{path: g.Paths.OverrideFile, data: a.Override, perm: 0o644},
	}

	for _, t := range targets {
		orig, err := os.ReadFile(t.path)
		switch {
		case err == nil:
			t.original, t.existed = orig, true
			if info, err := os.Stat(t.path); err == nil {
				t.perm = info.Mode().Perm()
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return partial(t.path, "reading current file", err)
		}
	}

	defer func() {
		for _, t := range targets {
			if t.tmp != "" {
				_ = os.Remove(t.tmp)
			}
		}
	}()

	for _, t := range targets {
		if err := stage(t); err != nil {
			return partial(t.path, "staging", err)
		}
	}

	rename := g.rename
	if rename == nil {
		rename = os.Rename
	}

	for i, t := range targets {
		if err := rename(t.tmp, t.path); err != nil {
			for _, done := range targets[:i] {
				if rerr := restore(done); rerr != nil {
					g.logger().WithError(rerr).WithField("file", done.path).Error("could not restore previous contents")
				}
			}
			return partial(t.path, "replacing file", err)
		}
		t.tmp = ""
	}
	return nil
}

func stage(t *target) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return err
	}
	t.tmp = f.Name()
	if _, err := f.Write(t.data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(t.perm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func restore(t *target) error {
	if !t.existed {
		return os.Remove(t.path)
	}
	return state.WriteFileAtomic(t.path, t.original, t.perm)
}

func partial(path, detail string, err error) error {
	return &model.ServiceError{
		Kind:   model.KindPartialGenerationFailure,
		Detail: fmt.Sprintf("%s: %s", path, detail),
		Err:    err,
	}
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Logger == nil {
		return logrus.StandardLogger()
	}
	return g.Logger
}
