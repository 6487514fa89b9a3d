package batch

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agbru/numkernels/internal/orchestration"
)

// Report is the YAML document written after a batch run.
type Report struct {
	Results []ResultEntry `yaml:"results"`
}

// ResultEntry is one job outcome. Result holds the decimal value; Error is
// set instead when the job failed.
type ResultEntry struct {
	Name       string   `yaml:"name"`
	Op         string   `yaml:"op"`
	Args       []uint32 `yaml:"args,flow"`
	Result     string   `yaml:"result,omitempty"`
	DurationNS int64    `yaml:"duration_ns"`
	Error      string   `yaml:"error,omitempty"`
}

// NewReport converts orchestration results to a report.
func NewReport(results []orchestration.EvaluationResult) Report {
	r := Report{Results: make([]ResultEntry, len(results))}
	for i, res := range results {
		e := ResultEntry{
			Name:       res.Name,
			Op:         string(res.Request.Op),
			Args:       res.Request.Args,
			DurationNS: res.Duration.Nanoseconds(),
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		} else {
			e.Result = res.Value.String()
		}
		r.Results[i] = e
	}
	return r
}

// Write encodes the report as YAML.
func (r Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the report to path.
func (r Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
