package domain

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field name to a human-readable rejection
// message. Only rejected fields have keys.
type ValidationErrors map[string]string

// Get returns the message for field, or "".
func (v ValidationErrors) Get(field string) string {
	return v[field]
}

// Has reports whether field was rejected.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Fields returns the rejected field names in sorted order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}
