package mapping

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EntriesKey is the top-level key holding the entry sequence.
const EntriesKey = "entries"

var (
	// ErrMissingEntries means the document has no "entries" sequence.
	ErrMissingEntries = errors.New("document has no entries sequence")
	// ErrMissingTitle means an entry has no string "title".
	ErrMissingTitle = errors.New("entry has no string title")
)

// Entry is one record of a mapping file.
type Entry map[string]any

// Title returns the entry's title and whether it is a string.
func (e Entry) Title() (string, bool) {
	title, ok := e["title"].(string)
	return title, ok
}

// File is a parsed mapping file.
type File struct {
	Path string
	// Raw is the file text exactly as read from disk.
	Raw string
	// Doc is the parsed document as JSON values: map[string]any, []any,
	// json.Number, float64, string, bool or nil.
	Doc any
}

// Load reads and parses the mapping file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return Parse(path, data)
}

// Parse parses mapping file contents. path is only used for error messages.
// Only single-document YAML is accepted.
func Parse(path string, data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc any
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, fmt.Errorf("parse %s: expected a single YAML document", path)
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &File{
		Path: path,
		Raw:  string(data),
		Doc:  normalize(doc),
	}, nil
}

// Entries returns the entries of the document in document order.
func (f *File) Entries() ([]Entry, error) {
	root, ok := f.Doc.(map[string]any)
	if !ok {
		return nil, ErrMissingEntries
	}
	list, ok := root[EntriesKey].([]any)
	if !ok {
		return nil, ErrMissingEntries
	}

	entries := make([]Entry, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entries[%d]: %w", i, ErrMissingTitle)
		}
		entries = append(entries, Entry(m))
	}
	return entries, nil
}

// normalize converts decoded YAML into the value set produced by
// encoding/json so the schema validator accepts it.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return json.Number(strconv.Itoa(t))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	default:
		return v
	}
}

// lookup returns the value at a JSON Pointer inside doc, or nil.
func lookup(doc any, tokens []string) any {
	cur := doc
	for _, tok := range tokens {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[tok]
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}
