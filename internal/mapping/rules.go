package mapping

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a violation.
type Kind string

const (
	KindSchema    Kind = "schema"
	KindQuoting   Kind = "quoting"
	KindDuplicate Kind = "duplicate"
)

// Violation is one reason a mapping file failed validation.
type Violation struct {
	Kind    Kind
	Message string
	// Path is the dotted location of the offending value, e.g. entries[2].
	Path string
	// Instance is the offending value: the entry for rule violations, the
	// failing value for schema violations.
	Instance any
}

// InstanceString renders Instance as compact JSON.
func (v Violation) InstanceString() string {
	data, err := json.Marshal(v.Instance)
	if err != nil {
		return fmt.Sprint(v.Instance)
	}
	return string(data)
}

func (v Violation) String() string {
	return fmt.Sprintf("%s at entry %s", v.Message, v.InstanceString())
}

// IsQuoted reports whether raw contains title wrapped in double quotes.
func IsQuoted(raw, title string) bool {
	return strings.Contains(raw, `"`+title+`"`)
}

func quotingViolation(index int, title string, entry Entry) Violation {
	return Violation{
		Kind:     KindQuoting,
		Message:  fmt.Sprintf("Title '%s' must be wrapped in double quotes", title),
		Path:     fmt.Sprintf("%s[%d].title", EntriesKey, index),
		Instance: entry,
	}
}

func duplicateViolation(index int, title string, entry Entry) Violation {
	return Violation{
		Kind:     KindDuplicate,
		Message:  fmt.Sprintf("%s is already mapped", title),
		Path:     fmt.Sprintf("%s[%d].title", EntriesKey, index),
		Instance: entry,
	}
}
