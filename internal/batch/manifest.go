// Package batch loads YAML job manifests and writes YAML result reports.
//
// A manifest lists named kernel requests:
//
//	concurrency: 4
//	jobs:
//	  - name: fib-50
//	    op: fibonacci
//	    args: [50]
//	  - op: prime_count
//	    args: [1000000]
//
// Jobs without a name are named after their request, e.g. "prime_count(1000000)".
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
)

// Manifest is the decoded form of a batch file. A zero Concurrency means the
// command-line default applies.
type Manifest struct {
	Concurrency int       `yaml:"concurrency,omitempty"`
	Jobs        []JobSpec `yaml:"jobs"`
}

// JobSpec is one job as written in the manifest. Args are kept as text so
// that range errors are reported with the same messages as every other host
// boundary.
type JobSpec struct {
	Name string   `yaml:"name,omitempty"`
	Op   string   `yaml:"op"`
	Args []string `yaml:"args"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot open batch manifest: %v", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a manifest from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewConfigError("batch manifest is empty")
		}
		return nil, apperrors.NewConfigError("invalid batch manifest: %v", err)
	}
	if m.Concurrency < 0 {
		return nil, apperrors.NewConfigError("batch concurrency must be >= 0, got %d", m.Concurrency)
	}
	if len(m.Jobs) == 0 {
		return nil, apperrors.NewConfigError("batch manifest has no jobs")
	}
	return &m, nil
}

// Requests validates every job spec and converts it to an orchestration job.
// The first invalid job aborts the conversion.
func (m *Manifest) Requests() ([]orchestration.Job, error) {
	jobs := make([]orchestration.Job, 0, len(m.Jobs))
	for i, spec := range m.Jobs {
		op, err := kernels.ParseOp(spec.Op)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		args, err := kernels.ParseArgs(op, spec.Args)
		if err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, op, err)
		}
		req := kernels.Request{Op: op, Args: args}
		name := spec.Name
		if name == "" {
			name = req.String()
		}
		jobs = append(jobs, orchestration.Job{Name: name, Request: req})
	}
	return jobs, nil
}
