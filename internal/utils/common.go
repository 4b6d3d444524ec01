// Package utils provides small helpers shared by the config, schema and
// mapping packages.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation path.
// For example, "/entries/3/title" becomes "entries[3].title". Without the
// document, all-digit tokens are taken as array indices; use InstancePath
// when the document is available.
func JSONPointerToPath(ptr string) string {
	return InstancePath(nil, ptr)
}

// InstancePath renders ptr as a dot-notation path, walking doc (JSON values
// as map[string]any and []any) to tell array indices from object keys.
// Keys that would read ambiguously, such as "", "1" or "a.b", are written
// as ["key"].
func InstancePath(doc any, ptr string) string {
	var b strings.Builder
	cur := doc
	for _, tok := range SplitJSONPointer(ptr) {
		index := false
		switch node := cur.(type) {
		case []any:
			index = true
			cur = nil
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(node) {
				cur = node[i]
			}
		case map[string]any:
			cur = node[tok]
		default:
			index = isDigits(tok)
			cur = nil
		}

		switch {
		case index:
			b.WriteString("[" + tok + "]")
		case tok == "" || isDigits(tok) || strings.ContainsAny(tok, ".[]\""):
			b.WriteString("[" + strconv.Quote(tok) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SplitJSONPointer returns the unescaped reference tokens of a JSON Pointer.
func SplitJSONPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

// BoolFromString reports whether s spells a true value (1, true, yes, on).
func BoolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
