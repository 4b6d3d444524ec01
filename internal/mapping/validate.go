package mapping

import (
	"fmt"

	"github.com/plexanisync/mappingcheck/internal/schema"
	"github.com/plexanisync/mappingcheck/internal/utils"
)

// FileResult is the outcome of validating one mapping file.
type FileResult struct {
	Path string
	// Entries is the number of entries that passed the title rules.
	Entries    int
	Violations []Violation
}

// OK reports whether the file passed every check.
func (r *FileResult) OK() bool {
	return len(r.Violations) == 0
}

// Validator validates mapping files against a schema and the title rules.
type Validator struct {
	schema *schema.Schema
}

// NewValidator returns a validator using s.
func NewValidator(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// ValidateFile loads and validates the file at path. Rule violations are
// reported in the result; read and parse failures, and documents whose
// entries lack a title after passing the schema, are returned as errors.
func (v *Validator) ValidateFile(path string) (*FileResult, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return v.Validate(f)
}

// Validate validates an already loaded file.
func (v *Validator) Validate(f *File) (*FileResult, error) {
	result := &FileResult{Path: f.Path}

	schemaErrs, err := v.schema.Validate(f.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	if len(schemaErrs) > 0 {
		for _, se := range schemaErrs {
			result.Violations = append(result.Violations, Violation{
				Kind:     KindSchema,
				Message:  se.Message,
				Path:     se.Path,
				Instance: lookup(f.Doc, utils.SplitJSONPointer(se.Pointer)),
			})
		}
		return result, nil
	}

	entries, err := f.Entries()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}

	// f.Raw is read once per file; the file does not change during a run.
	titles := NewTitleRegistry()
	for i, entry := range entries {
		title, ok := entry.Title()
		if !ok {
			return nil, fmt.Errorf("%s: entries[%d]: %w", f.Path, i, ErrMissingTitle)
		}
		if !IsQuoted(f.Raw, title) {
			result.Violations = append(result.Violations, quotingViolation(i, title, entry))
			return result, nil
		}
		if !titles.Add(title) {
			result.Violations = append(result.Violations, duplicateViolation(i, title, entry))
			return result, nil
		}
		result.Entries++
	}

	return result, nil
}
