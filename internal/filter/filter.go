// Package filter implements the live text filter behind every searchable dropdown.
package filter

import "strings"

// Filter returns the options whose lower-cased text contains the lower-cased
// query, preserving their relative order. An empty query returns options
// unchanged.
func Filter(options []string, query string) []string {
	if query == "" {
		return options
	}
	q := strings.ToLower(query)
	out := make([]string, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(o), q) {
			out = append(out, o)
		}
	}
	return out
}
