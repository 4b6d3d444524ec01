package schema

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/plexanisync/mappingcheck/internal/utils"
)

// Source records where a schema was loaded from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Schema is a compiled custom mappings schema.
type Schema struct {
	// Raw is the schema document as stored in the cache.
	Raw []byte
	// Source tells whether Raw came from the cache or the network.
	Source Source
	// Path is the cache file backing this schema.
	Path string

	compiled *jsonschema.Schema
}

// Error is a single schema violation.
type Error struct {
	// Pointer is the JSON Pointer of the offending instance.
	Pointer string
	// Path is Pointer in dotted form, e.g. entries[0].title.
	Path string
	// Message is the validator's description of the violation.
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Compile compiles raw JSON schema bytes. name identifies the schema in
// compiler errors and is usually the cache path.
func Compile(raw []byte, name string) (*Schema, error) {
	resource := resourceURL(name)

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return &Schema{
		Raw:      raw,
		Path:     name,
		compiled: compiled,
	}, nil
}

// Validate checks doc against the schema. doc must hold JSON values as
// produced by encoding/json (map[string]any, []any, json.Number, ...).
// It returns the leaf violations sorted by location; an empty slice means the
// document conforms. The error is non-nil only when validation itself could
// not run.
func (s *Schema) Validate(doc any) ([]Error, error) {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var out []Error
	collectLeaves(&out, doc, ve)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pointer != out[j].Pointer {
			return out[i].Pointer < out[j].Pointer
		}
		return out[i].Message < out[j].Message
	})
	return out, nil
}

func collectLeaves(out *[]Error, doc any, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, Error{
			Pointer: err.InstanceLocation,
			Path:    utils.InstancePath(doc, err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(out, doc, cause)
	}
}

// resourceURL turns a file name into an absolute file URL so the compiler
// never resolves it against its own working directory.
func resourceURL(name string) string {
	if u, err := url.Parse(name); err == nil && u.IsAbs() && len(u.Scheme) > 1 {
		return name
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
