package mapping

import "strings"

// TitleRegistry records the titles seen in one file, lower-cased, in the
// order they were added.
type TitleRegistry struct {
	titles []string
	seen   map[string]struct{}
}

// NewTitleRegistry returns an empty registry.
func NewTitleRegistry() *TitleRegistry {
	return &TitleRegistry{seen: make(map[string]struct{})}
}

// Contains reports whether title was already added, ignoring case.
func (r *TitleRegistry) Contains(title string) bool {
	_, ok := r.seen[foldTitle(title)]
	return ok
}

// Add records title. It returns false, leaving the registry unchanged, when
// an equal title (ignoring case) is already present.
func (r *TitleRegistry) Add(title string) bool {
	key := foldTitle(title)
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	r.titles = append(r.titles, key)
	return true
}

// Titles returns the lower-cased titles in insertion order.
func (r *TitleRegistry) Titles() []string {
	out := make([]string, len(r.titles))
	copy(out, r.titles)
	return out
}

// Len returns the number of titles recorded.
func (r *TitleRegistry) Len() int {
	return len(r.titles)
}

func foldTitle(title string) string {
	return strings.ToLower(title)
}
