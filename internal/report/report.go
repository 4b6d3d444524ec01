// Package report aggregates per-file validation results into a run outcome.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plexanisync/mappingcheck/internal/mapping"
)

// Report collects file results in the order they were produced.
type Report struct {
	Results []*mapping.FileResult
}

// Add appends a file result.
func (r *Report) Add(result *mapping.FileResult) {
	r.Results = append(r.Results, result)
}

// OK reports whether every file passed. An empty report is OK.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Failed returns the number of failed files.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// ExitCode maps the outcome to a process exit status: 0 when every file
// passed, 1 otherwise.
func (r *Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Reporter logs file results.
type Reporter struct {
	logger *log.Logger
	// baseDir, when set, shortens logged paths to be relative to it.
	baseDir string
}

// NewReporter returns a reporter writing to logger.
func NewReporter(logger *log.Logger, baseDir string) *Reporter {
	return &Reporter{logger: logger, baseDir: baseDir}
}

// Log writes the outcome of one file: a success line, or a failure header
// followed by one line per violation.
func (r *Reporter) Log(result *mapping.FileResult) {
	name := DisplayPath(r.baseDir, result.Path)
	if result.OK() {
		r.logger.Infof("Custom Mappings validation successful for %s", name)
		return
	}

	r.logger.Errorf("Custom Mappings validation failed for %s!", name)
	for _, v := range result.Violations {
		r.logger.Error(v.String(), "kind", v.Kind, "path", v.Path)
	}
}

// Summary writes the closing line of a run.
func (r *Reporter) Summary(rep *Report) {
	total := len(rep.Results)
	if total == 0 {
		r.logger.Warn("No mapping files found")
		return
	}
	if rep.OK() {
		r.logger.Infof("%d of %d mapping files valid", total, total)
		return
	}
	r.logger.Errorf("%d of %d mapping files failed validation", rep.Failed(), total)
}

// DisplayPath returns path relative to base when that is shorter and does
// not climb out of base; otherwise path itself.
func DisplayPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

type jsonViolation struct {
	Kind     mapping.Kind `json:"kind"`
	Message  string       `json:"message"`
	Path     string       `json:"path,omitempty"`
	Instance any          `json:"instance,omitempty"`
}

type jsonFile struct {
	Path       string          `json:"path"`
	OK         bool            `json:"ok"`
	Entries    int             `json:"entries"`
	Violations []jsonViolation `json:"violations,omitempty"`
}

type jsonReport struct {
	GeneratedAt time.Time  `json:"generated_at"`
	OK          bool       `json:"ok"`
	Files       int        `json:"files"`
	Failed      int        `json:"failed"`
	Results     []jsonFile `json:"results"`
}

// MarshalJSON renders the report in its machine-readable form.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := jsonReport{
		GeneratedAt: time.Now().UTC(),
		OK:          r.OK(),
		Files:       len(r.Results),
		Failed:      r.Failed(),
		Results:     make([]jsonFile, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		f := jsonFile{Path: res.Path, OK: res.OK(), Entries: res.Entries}
		for _, v := range res.Violations {
			f.Violations = append(f.Violations, jsonViolation{
				Kind:     v.Kind,
				Message:  v.Message,
				Path:     v.Path,
				Instance: v.Instance,
			})
		}
		out.Results = append(out.Results, f)
	}
	return json.Marshal(out)
}

// WriteJSON writes the report to path with 2-space indentation.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
