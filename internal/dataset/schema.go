package dataset

import (
	"sort"
	"strings"
)

// ValidateColumns checks that every required name appears in columns.
// Header names are compared after trimming surrounding whitespace. The
// returned *MissingColumnsError carries the exact missing set, sorted.
func ValidateColumns(columns, required []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[cleanHeader(c)] = struct{}{}
	}
	var missing []string
	seen := map[string]struct{}{}
	for _, r := range required {
		if _, ok := have[r]; ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		missing = append(missing, r)
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &MissingColumnsError{Missing: missing}
}

func cleanHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

// columnIndex maps cleaned header names to their first position.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := cleanHeader(h)
		if _, dup := idx[name]; dup {
			continue
		}
		idx[name] = i
	}
	return idx
}
