// Package diag defines the diagnostic records accumulated while loading
// quarry configuration, and the ordered collection they are appended to.
//
// A single Diagnostics value is created per load call and threaded through
// every phase of the pipeline. Ownership is strict: the creator of the
// collection owns it, collaborators only append. Presence of an error-severity
// entry is the one signal the loader uses to short-circuit remaining work.
package diag

import "fmt"

// Severity classifies a diagnostic entry.
type Severity string

const (
	// SeverityError marks a failure that stops further loading work.
	SeverityError Severity = "error"

	// SeverityWarning marks a condition worth surfacing that does not stop loading.
	SeverityWarning Severity = "warning"
)

// Diagnostic is one structured error or warning record.
type Diagnostic struct {
	// Severity is the entry classification (error, warning).
	Severity Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// File is the absolute path of the file the entry refers to, if any.
	File string `json:"file,omitempty"`
}

// Diagnostics is an ordered, append-only accumulator of diagnostic entries.
// Insertion order is preserved for display. The zero value is ready to use.
type Diagnostics struct {
	entries []Diagnostic
}

// Append adds entries to the collection in order.
func (d *Diagnostics) Append(entries ...Diagnostic) {
	d.entries = append(d.entries, entries...)
}

// Errorf appends an error-severity entry. file may be empty when the failure
// is not tied to a specific file.
func (d *Diagnostics) Errorf(file, format string, args ...any) {
	d.entries = append(d.entries, Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
	})
}

// Warnf appends a warning-severity entry.
func (d *Diagnostics) Warnf(file, format string, args ...any) {
	d.entries = append(d.entries, Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
	})
}

// HasErrors reports whether any error-severity entry has been appended.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated entries.
func (d *Diagnostics) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the accumulated entries in insertion order.
func (d *Diagnostics) Entries() []Diagnostic {
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}
